package calcgame_test

import (
	"fmt"
	"log"

	"github.com/aretw0/calcgame"
)

func ExampleGame() {
	game, err := calcgame.New(calcgame.WithSeed(42))
	if err != nil {
		log.Fatal(err)
	}

	game.Press("1+2*3")
	result, err := game.Calculate()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(result.Formatted, "=", result.Display)
	fmt.Println("money:", game.View().Money)

	_ = game.Undo()
	fmt.Println("screen:", game.View().Screen)
	// Output:
	// (1+(2*3)) = 7
	// money: 2
	// screen: 1+2*3
}
