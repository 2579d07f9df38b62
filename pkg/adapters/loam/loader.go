package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader adapts a loam repository of rule documents to ports.ModLoader.
type Loader struct {
	Repo *loam.TypedRepository[RuleMetadata]
}

// New creates a loader over an existing typed repository.
func New(repo *loam.TypedRepository[RuleMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initialises a read-only, strict loam repository at dir.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[RuleMetadata](repo)), nil
}

// LoadRules reads every document as a rule, ordered by ID.
func (l *Loader) LoadRules(ctx context.Context) ([]domain.ModRule, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	rules := make([]domain.ModRule, 0, len(docs))
	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: rule '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID

		rule, err := toRule(id, doc.Data, doc.Content)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", id, err)
		}
		rules = append(rules, rule)
	}

	slices.SortFunc(rules, func(a, b domain.ModRule) int { return strings.Compare(a.ID, b.ID) })
	return rules, nil
}

func toRule(id string, meta RuleMetadata, content string) (domain.ModRule, error) {
	priority, err := parsePriority(meta.Priority)
	if err != nil {
		return domain.ModRule{}, err
	}

	kind := meta.Kind
	if kind == "" {
		kind = domain.RuleFunction
		if meta.Symbol != "" {
			kind = domain.RuleOperator
		}
	}
	if kind != domain.RuleOperator && kind != domain.RuleFunction {
		return domain.ModRule{}, fmt.Errorf("unknown kind %q", meta.Kind)
	}
	if strings.TrimSpace(meta.Formula) == "" {
		return domain.ModRule{}, fmt.Errorf("missing formula")
	}

	return domain.ModRule{
		ID:          id,
		Kind:        kind,
		Symbol:      meta.Symbol,
		Name:        meta.Name,
		Priority:    priority,
		Formula:     meta.Formula,
		Description: strings.TrimSpace(content),
	}, nil
}

func parsePriority(v any) (int, error) {
	switch p := v.(type) {
	case nil:
		return 0, nil
	case int:
		return p, nil
	case int64:
		return int(p), nil
	case float64:
		return int(p), nil
	case json.Number:
		n, err := p.Int64()
		if err != nil {
			return 0, fmt.Errorf("invalid priority %q: %w", p, err)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("invalid priority %q: %w", p, err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("invalid priority type %T", v)
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext == "" {
		return id
	}
	return strings.TrimSuffix(id, ext)
}

// Watch implements ports.Watchable. It reports the ID of every changed rule
// document until ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
