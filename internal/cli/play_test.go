package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/calcgame"
	"github.com/aretw0/calcgame/internal/cli"
	"github.com/aretw0/calcgame/pkg/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func play(t *testing.T, game *calcgame.Game, cfg cli.PlayConfig, script string) string {
	t.Helper()
	cfg.Game = game
	var out bytes.Buffer
	require.NoError(t, cli.Play(context.Background(), strings.NewReader(script), &out, cfg))
	return out.String()
}

func TestPlay_Calculate(t *testing.T) {
	game, err := calcgame.New()
	require.NoError(t, err)

	out := play(t, game, cli.PlayConfig{}, "1+2*3=\n")

	assert.Contains(t, out, "7")
	assert.Equal(t, "7", game.View().Screen)
	assert.Equal(t, "2", game.View().Money.String())
}

func TestPlay_UndoRedo(t *testing.T) {
	game, err := calcgame.New()
	require.NoError(t, err)

	play(t, game, cli.PlayConfig{}, "12\n+3\nu\nu\nr\n")

	assert.Equal(t, "12", game.View().Screen)
	assert.True(t, game.View().CanRedo)
}

func TestPlay_ReportsErrorsAndKeepsGoing(t *testing.T) {
	game, err := calcgame.New()
	require.NoError(t, err)

	out := play(t, game, cli.PlayConfig{}, "u\n1+=\n4=\n")

	assert.Contains(t, out, "! nothing to undo")
	assert.Equal(t, "4", game.View().Screen)
}

func TestPlay_QuitStopsReading(t *testing.T) {
	game, err := calcgame.New()
	require.NoError(t, err)

	play(t, game, cli.PlayConfig{}, "1\n:quit\n2\n")

	assert.Equal(t, "1", game.View().Screen)
}

func TestPlay_HelpAndCatalog(t *testing.T) {
	game, err := calcgame.New()
	require.NoError(t, err)

	out := play(t, game, cli.PlayConfig{}, ":help\n:catalog\n")

	assert.Contains(t, out, "calculate the screen")
	assert.Contains(t, out, "operators:")
	assert.Contains(t, out, "+(")
	assert.Contains(t, out, "cos")
}

func TestPlay_PersistsAndResumes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	first, err := calcgame.New(calcgame.WithID("local"), calcgame.WithSeed(7))
	require.NoError(t, err)
	play(t, first, cli.PlayConfig{Store: store}, "2*5=\n")

	second, err := calcgame.New(calcgame.WithID("local"), calcgame.WithSeed(7))
	require.NoError(t, err)
	resumed, err := cli.Resume(ctx, store, second)
	require.NoError(t, err)
	require.True(t, resumed)

	assert.Equal(t, "10", second.View().Screen)
	assert.Equal(t, first.View().Money, second.View().Money)

	fresh, err := calcgame.New(calcgame.WithID("other"))
	require.NoError(t, err)
	resumed, err = cli.Resume(ctx, store, fresh)
	require.NoError(t, err)
	assert.False(t, resumed)
}
