package console

import (
	"strings"
	"testing"

	"github.com/halmar/bookstore/internal/engine"
	"github.com/halmar/bookstore/internal/service"
	"github.com/halmar/bookstore/internal/store"
)

// runScript executes the given input lines against a fresh store seeded
// through the catalog service and returns the console output.
func runScript(t *testing.T, seedBatch string, lines ...string) string {
	t.Helper()

	ledger := store.NewStockLedger()
	carts := store.NewCartStore()
	catalogSvc := service.NewCatalogService(ledger)
	cartSvc := service.NewCartService(carts, ledger, engine.NewSettlement(ledger))

	if seedBatch != "" {
		if _, err := catalogSvc.LoadBatch(seedBatch); err != nil {
			t.Fatalf("seed batch: %v", err)
		}
	}

	in := strings.NewReader(strings.Join(lines, "\n"))
	var out strings.Builder
	c := New(catalogSvc, cartSvc, in, &out)
	if err := c.Run(); err != nil {
		t.Fatalf("console run: %v", err)
	}
	return out.String()
}

func TestConsole_ListAndSearch(t *testing.T) {
	out := runScript(t, "Hello World;Someone;10.00;3\nOther;Author;20.00;1\n",
		"list hell",
		"exit",
	)
	if !strings.Contains(out, "Hello World") {
		t.Fatalf("expected matching book in output:\n%s", out)
	}
	if strings.Contains(out, "Other") {
		t.Fatalf("non-matching book leaked into output:\n%s", out)
	}
}

func TestConsole_ListNothingFound(t *testing.T) {
	out := runScript(t, "", "list", "exit")
	if !strings.Contains(out, "Couldn't find anything") {
		t.Fatalf("expected empty-catalog message:\n%s", out)
	}
}

func TestConsole_AddToCartAndBuy(t *testing.T) {
	out := runScript(t, "Generic Title;First Author;185.50;2\n",
		"add 0;3",
		"cart",
		"buy",
		"exit",
	)
	if !strings.Contains(out, "Successfully added 3x Generic Title by First Author to cart!") {
		t.Fatalf("missing add confirmation:\n%s", out)
	}
	if !strings.Contains(out, "NOT IN STOCK") {
		t.Fatalf("third copy should be out of stock:\n%s", out)
	}
	if !strings.Contains(out, "371.00") {
		t.Fatalf("expected total 371.00:\n%s", out)
	}
}

func TestConsole_AddUnknownBook(t *testing.T) {
	out := runScript(t, "", "add 7", "exit")
	if !strings.Contains(out, "Couldn't find any book with the id 7") {
		t.Fatalf("missing not-found message:\n%s", out)
	}
}

func TestConsole_RemoveFromCart(t *testing.T) {
	out := runScript(t, "A;X;10.00;5\n",
		"add 0",
		"remove 0",
		"remove 0",
		"exit",
	)
	if !strings.Contains(out, "Successfully removed A by X from your cart") {
		t.Fatalf("missing removal confirmation:\n%s", out)
	}
	if !strings.Contains(out, "No book in cart on index 0") {
		t.Fatalf("missing out-of-range message:\n%s", out)
	}
}

func TestConsole_AddStock(t *testing.T) {
	out := runScript(t, "",
		"addstock New Book;New Author;42.00;7",
		"list",
		"exit",
	)
	if !strings.Contains(out, "Added a new book to the store:") {
		t.Fatalf("missing add confirmation:\n%s", out)
	}
	if !strings.Contains(out, "New Book") {
		t.Fatalf("book missing from listing:\n%s", out)
	}
}

func TestConsole_RemoveStock(t *testing.T) {
	out := runScript(t, "A;X;10.00;5\n",
		"remstock 0;2",
		"remstock 0",
		"list",
		"exit",
	)
	if !strings.Contains(out, "Removed 2x A by X from the store") {
		t.Fatalf("missing reduce confirmation:\n%s", out)
	}
	if !strings.Contains(out, "Removed book from the store:") {
		t.Fatalf("missing removal confirmation:\n%s", out)
	}
	if !strings.Contains(out, "Couldn't find anything") {
		t.Fatalf("catalog should be empty after removal:\n%s", out)
	}
}

func TestConsole_UnknownCommandShowsHelp(t *testing.T) {
	out := runScript(t, "", "frobnicate", "exit")
	if !strings.Contains(out, "List all available commands") {
		t.Fatalf("unknown command should fall back to help:\n%s", out)
	}
}

func TestConsole_InvalidArgument(t *testing.T) {
	out := runScript(t, "", "add notanumber", "exit")
	if !strings.Contains(out, "isn't a valid positive integer") {
		t.Fatalf("missing argument error:\n%s", out)
	}
}
