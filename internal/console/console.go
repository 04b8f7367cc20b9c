// Package console implements the interactive line-oriented interface to
// the bookstore. Commands are written as "name arg1;arg2;...", one per
// line; output is fixed-width text tables.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/halmar/bookstore/internal/domain"
	"github.com/halmar/bookstore/internal/render"
	"github.com/halmar/bookstore/internal/service"
)

// command is a single console command with its help line.
type command struct {
	name string
	help string
	run  func(c *Console, args []string) bool // returns false to stop the loop
}

// commands is the registry, in help-listing order. It is populated in
// init to break the initialization cycle with cmdHelp.
var commands []command

func init() {
	commands = []command{
		{"add", "[id;(quantity)] Add a book to your cart", (*Console).cmdAddToCart},
		{"remove", "[cartindex] Remove a book from your cart", (*Console).cmdRemoveFromCart},
		{"addstock", "[title;author;price;quantity] Add a new book to the store's stock", (*Console).cmdAddStock},
		{"remstock", "[id;(quantity)] Remove a book from the store's stock", (*Console).cmdRemoveStock},
		{"list", "[(searchstring)] List all books with that title or by that author; lists everything if no searchstring is given", (*Console).cmdList},
		{"cart", "Lists all books currently in your shopping cart", (*Console).cmdCart},
		{"buy", "Buy contents of your shopping cart", (*Console).cmdBuy},
		{"exit", "Exit program", (*Console).cmdExit},
		{"help", "List all available commands", (*Console).cmdHelp},
	}
}

// Console drives the catalog and cart services from a line-oriented
// input stream. Each Console owns one cart session.
type Console struct {
	catalog *service.CatalogService
	carts   *service.CartService
	cartID  string

	in  io.Reader
	out io.Writer
}

// New creates a Console reading commands from in and writing to out.
// A fresh cart session is opened for the console user.
func New(catalog *service.CatalogService, carts *service.CartService, in io.Reader, out io.Writer) *Console {
	cart := carts.CreateCart()
	return &Console{
		catalog: catalog,
		carts:   carts,
		cartID:  cart.ID,
		in:      in,
		out:     out,
	}
}

// Run reads and executes commands until the input is exhausted or the
// exit command is given.
func (c *Console) Run() error {
	fmt.Fprintln(c.out, "Hello and welcome to our store!")
	fmt.Fprintln(c.out, "To list available commands, type help")

	sc := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, ">>")
		if !sc.Scan() {
			break
		}
		if !c.execute(sc.Text()) {
			break
		}
	}
	return sc.Err()
}

// execute dispatches one input line. Unknown commands fall back to help.
// Returns false when the loop should stop.
func (c *Console) execute(line string) bool {
	name, rest, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	var args []string
	if rest != "" {
		args = strings.Split(rest, ";")
	}
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd.run(c, args)
		}
	}
	return c.cmdHelp(args)
}

func (c *Console) cmdAddToCart(args []string) bool {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Too few arguments! Need at least a book id.")
		return true
	}
	bookID, ok := c.positiveInt(args, 0)
	if !ok {
		return true
	}
	quantity := 1
	if len(args) > 1 {
		if quantity, ok = c.positiveInt(args, 1); !ok {
			return true
		}
	}
	book, err := c.carts.AddToCart(c.cartID, bookID, quantity)
	if err != nil {
		if err == domain.ErrBookNotFound {
			fmt.Fprintf(c.out, "Couldn't find any book with the id %d\n", bookID)
		} else {
			fmt.Fprintf(c.out, "Failed to add to cart: %v\n", err)
		}
		return true
	}
	fmt.Fprintf(c.out, "Successfully added %dx %s by %s to cart!\n", quantity, book.Title, book.Author)
	return true
}

func (c *Console) cmdRemoveFromCart(args []string) bool {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Too few arguments! Need a cart index.")
		return true
	}
	index, ok := c.positiveInt(args, 0)
	if !ok {
		return true
	}
	book, err := c.carts.RemoveFromCart(c.cartID, index)
	if err != nil {
		fmt.Fprintf(c.out, "No book in cart on index %d\n", index)
		return true
	}
	fmt.Fprintf(c.out, "Successfully removed %s by %s from your cart\n", book.Title, book.Author)
	return true
}

func (c *Console) cmdAddStock(args []string) bool {
	if len(args) < 4 {
		fmt.Fprintf(c.out, "Too few arguments! Need 4 arguments but only found %d (title;author;price;quantity)\n", len(args))
		return true
	}
	price, err := domain.ParsePrice(args[2])
	if err != nil {
		fmt.Fprintf(c.out, "Argument number 3 isn't a valid decimal number. (%s)\n", args[2])
		return true
	}
	quantity, ok := c.positiveInt(args, 3)
	if !ok {
		return true
	}
	entry, err := c.catalog.AddBook(args[0], args[1], price, quantity)
	if err != nil {
		fmt.Fprintf(c.out, "Failed to add book: %v\n", err)
		return true
	}
	fmt.Fprintln(c.out, "Added a new book to the store:")
	fmt.Fprintln(c.out, render.BookRow(entry.Book))
	return true
}

func (c *Console) cmdRemoveStock(args []string) bool {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Too few arguments! Need at least the ID of the book to remove, quantity to remove is optional")
		return true
	}
	bookID, ok := c.positiveInt(args, 0)
	if !ok {
		return true
	}
	if len(args) > 1 {
		amount, ok := c.positiveInt(args, 1)
		if !ok {
			return true
		}
		book, removed, err := c.catalog.ReduceQuantity(bookID, amount)
		if err != nil {
			fmt.Fprintln(c.out, "No books were removed")
			return true
		}
		fmt.Fprintf(c.out, "Removed %dx %s by %s from the store\n", removed, book.Title, book.Author)
		return true
	}
	entry, err := c.catalog.RemoveBook(bookID)
	if err != nil {
		fmt.Fprintln(c.out, "No books were removed")
		return true
	}
	fmt.Fprintln(c.out, "Removed book from the store:")
	fmt.Fprintln(c.out, render.BookRow(entry.Book))
	return true
}

func (c *Console) cmdList(args []string) bool {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	entries := c.catalog.List(query)
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "Couldn't find anything")
		return true
	}
	fmt.Fprintln(c.out, render.StockTable(entries))
	return true
}

func (c *Console) cmdCart(args []string) bool {
	items, err := c.carts.Contents(c.cartID)
	if err != nil {
		fmt.Fprintf(c.out, "Failed to read cart: %v\n", err)
		return true
	}
	if len(items) == 0 {
		fmt.Fprintln(c.out, "There are no books in your cart")
		return true
	}
	fmt.Fprintln(c.out, render.CartTable(items))
	return true
}

func (c *Console) cmdBuy(args []string) bool {
	result, err := c.carts.Buy(c.cartID, false)
	if err != nil {
		fmt.Fprintf(c.out, "Failed to buy: %v\n", err)
		return true
	}
	fmt.Fprintln(c.out, render.Receipt(result))
	return true
}

func (c *Console) cmdExit(args []string) bool {
	return false
}

func (c *Console) cmdHelp(args []string) bool {
	for _, cmd := range commands {
		fmt.Fprintf(c.out, "%8s - %s\n", cmd.name, cmd.help)
	}
	fmt.Fprintln(c.out, `Written as: "command arg1;arg2;arg3..."`)
	return true
}

// positiveInt parses args[index] as a non-negative integer, printing the
// standard error message on failure.
func (c *Console) positiveInt(args []string, index int) (int, bool) {
	n, err := strconv.Atoi(args[index])
	if err != nil || n < 0 {
		fmt.Fprintf(c.out, "Argument number %d isn't a valid positive integer. (%s)\n", index+1, args[index])
		return 0, false
	}
	return n, true
}
