package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tuido/internal/api"
	"github.com/idilsaglam/tuido/internal/model"
	"github.com/idilsaglam/tuido/internal/tui"
	"github.com/idilsaglam/tuido/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group  bool // show grouped by pending/done
	Client *api.Client
	Logger *log.Logger
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		return doTUI(opt)
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return doTUI(opt)

	case "lists":
		return doLists(opt)

	case "new":
		if len(a) == 0 {
			ui.Fail("usage: tuido new <name...>")
			return 2
		}
		return doNewList(opt, strings.Join(a, " "))

	case "rm":
		n, code := parseIndex(a, "rm <list-index>")
		if code != 0 {
			return code
		}
		return doRemoveList(opt, n)

	case "show":
		n, code := parseIndex(a, "show <list-index>")
		if code != 0 {
			return code
		}
		return doShow(opt, n)

	case "add":
		if len(a) < 2 {
			ui.Fail("usage: tuido add <list-index> <label...>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("add: not a number: " + a[0])
			return 2
		}
		return doAddItem(opt, n, strings.Join(a[1:], " "))

	case "done":
		ln, in, code := parsePair(a, "done <list-index> <item-index>")
		if code != 0 {
			return code
		}
		return doToggleItem(opt, ln, in)

	case "rmi":
		ln, in, code := parsePair(a, "rmi <list-index> <item-index>")
		if code != 0 {
			return code
		}
		return doRemoveItem(opt, ln, in)

	case "ping":
		return doPing(opt)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`tuido - terminal client for a to-do list server

Usage:
  tuido [subcommand] [args]

Subcommands:
  ls                               Interactive TUI (default)
  lists                            Print all lists
  new <name...>                    Create a list
  rm <list-index>                  Delete list at 1-based index
  show <list-index>                Print one list's items
  add <list-index> <label...>      Add an item
  done <list-index> <item-index>   Toggle an item's checked state
  rmi <list-index> <item-index>    Delete an item
  ping                             Check the server is reachable

Examples:
  tuido new "Groceries"
  tuido add 1 "Buy milk"
  tuido done 1 2
  tuido lists
`)
}

func parseIndex(a []string, usage string) (int, int) {
	if len(a) != 1 {
		ui.Fail("usage: tuido " + usage)
		return 0, 2
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		ui.Fail("not a number: " + a[0])
		return 0, 2
	}
	return n, 0
}

func parsePair(a []string, usage string) (int, int, int) {
	if len(a) != 2 {
		ui.Fail("usage: tuido " + usage)
		return 0, 0, 2
	}
	ln, err := strconv.Atoi(a[0])
	if err != nil {
		ui.Fail("not a number: " + a[0])
		return 0, 0, 2
	}
	in, err := strconv.Atoi(a[1])
	if err != nil {
		ui.Fail("not a number: " + a[1])
		return 0, 0, 2
	}
	return ln, in, 0
}

func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// ---------------------------------------------------
// subcommand impls
// ---------------------------------------------------

func doTUI(opt Options) int {
	if err := tui.Run(opt.Client, opt.Logger); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

// resolveList maps a human 1-based index onto a server list id.
func resolveList(ctx context.Context, opt Options, userIndex int) (model.ListSummary, int) {
	lists, err := opt.Client.Lists(ctx)
	if err != nil {
		ui.Fail("fetch lists: " + err.Error())
		return model.ListSummary{}, 1
	}
	if userIndex < 1 || userIndex > len(lists) {
		ui.Fail(fmt.Sprintf("list index out of range: have %d, got %d", len(lists), userIndex))
		fmt.Fprintln(os.Stderr, ui.C("\033[90m", "Hint: run `tuido lists` to see valid indexes"))
		return model.ListSummary{}, 2
	}
	return lists[userIndex-1], 0
}

func doLists(opt Options) int {
	ctx, cancel := cmdContext()
	defer cancel()

	lists, err := opt.Client.Lists(ctx)
	if err != nil {
		ui.Fail("fetch lists: " + err.Error())
		return 1
	}

	total := 0
	for _, l := range lists {
		total += l.ItemCount
	}
	header := fmt.Sprintf("%s  %s %d  %s %d",
		ui.C(ui.Current().Title, "Lists"),
		ui.C(ui.Current().Accent, "lists"), len(lists),
		ui.C(ui.Current().Muted, "items"), total,
	)

	lines := []string{header, ""}
	if len(lists) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "no lists"))
	}
	for i, l := range lists {
		idx := fmt.Sprintf("%2d.", i+1)
		count := fmt.Sprintf("(%d items)", l.ItemCount)
		if l.ItemCount == 1 {
			count = "(1 item)"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			ui.Dim(idx), ui.Truncate(l.Name, 60), ui.C(ui.Current().Muted, count)))
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Muted, "Tip: open the TUI with `tuido ls`"))
	ui.Panel(lines)
	return 0
}

func doNewList(opt Options, name string) int {
	name = strings.TrimSpace(name)
	if name == "" {
		ui.Fail("new: empty name")
		return 2
	}
	ctx, cancel := cmdContext()
	defer cancel()

	ref, err := opt.Client.CreateList(ctx, name)
	if err != nil {
		ui.Fail("create list: " + err.Error())
		return 1
	}
	ui.OK("created " + ref.ID)
	return 0
}

func doRemoveList(opt Options, userIndex int) int {
	ctx, cancel := cmdContext()
	defer cancel()

	l, code := resolveList(ctx, opt, userIndex)
	if code != 0 {
		return code
	}
	if err := opt.Client.DeleteList(ctx, l.ID); err != nil {
		ui.Fail("delete list: " + err.Error())
		return 1
	}
	ui.OK("removed " + l.Name)
	return 0
}

func doShow(opt Options, userIndex int) int {
	ctx, cancel := cmdContext()
	defer cancel()

	sum, code := resolveList(ctx, opt, userIndex)
	if code != 0 {
		return code
	}
	l, err := opt.Client.List(ctx, sum.ID)
	if err != nil {
		ui.Fail("fetch list: " + err.Error())
		return 1
	}

	d, p := l.Stats()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(ui.Current().Title, l.Name),
		ui.C(ui.Current().Success, ui.Current().SymDone), d,
		ui.C(ui.Current().Pending, ui.Current().SymUnchecked), p,
		ui.C(ui.Current().Accent, "Total"), len(l.Items),
	)

	lines := []string{header, ui.C(ui.Current().Muted, ui.ProgressBar(d, d+p, 28)), ""}
	if opt.Group {
		lines = append(lines, groupLines(l.Items)...)
	} else {
		lines = append(lines, flatLines(l.Items)...)
	}
	ui.Panel(lines)
	return 0
}

func doAddItem(opt Options, userIndex int, label string) int {
	label = strings.TrimSpace(label)
	if label == "" {
		ui.Fail("add: empty label")
		return 2
	}
	ctx, cancel := cmdContext()
	defer cancel()

	l, code := resolveList(ctx, opt, userIndex)
	if code != 0 {
		return code
	}
	if _, err := opt.Client.CreateItem(ctx, l.ID, label); err != nil {
		ui.Fail("add item: " + err.Error())
		return 1
	}
	ui.OK("added")
	return 0
}

func doToggleItem(opt Options, listIndex, itemIndex int) int {
	ctx, cancel := cmdContext()
	defer cancel()

	sum, code := resolveList(ctx, opt, listIndex)
	if code != 0 {
		return code
	}
	l, err := opt.Client.List(ctx, sum.ID)
	if err != nil {
		ui.Fail("fetch list: " + err.Error())
		return 1
	}
	it, code := itemAt(l, itemIndex)
	if code != 0 {
		return code
	}
	if _, err := opt.Client.SetChecked(ctx, l.ID, it.ID, !it.Checked); err != nil {
		ui.Fail("toggle: " + err.Error())
		return 1
	}
	ui.OK("toggled")
	return 0
}

func doRemoveItem(opt Options, listIndex, itemIndex int) int {
	ctx, cancel := cmdContext()
	defer cancel()

	sum, code := resolveList(ctx, opt, listIndex)
	if code != 0 {
		return code
	}
	l, err := opt.Client.List(ctx, sum.ID)
	if err != nil {
		ui.Fail("fetch list: " + err.Error())
		return 1
	}
	it, code := itemAt(l, itemIndex)
	if code != 0 {
		return code
	}
	if _, err := opt.Client.DeleteItem(ctx, l.ID, it.ID); err != nil {
		ui.Fail("remove item: " + err.Error())
		return 1
	}
	ui.OK("removed")
	return 0
}

func doPing(opt Options) int {
	ctx, cancel := cmdContext()
	defer cancel()

	p, err := opt.Client.Ping(ctx)
	if err != nil {
		ui.Fail("server unreachable: " + err.Error())
		return 1
	}
	ui.OK("server ok, time " + p.When.Local().Format(time.RFC3339))
	return 0
}

// itemAt resolves a 1-based item index, refusing items the server never
// gave an id (they cannot be addressed by any endpoint).
func itemAt(l model.ToDoList, userIndex int) (model.Item, int) {
	if userIndex < 1 || userIndex > len(l.Items) {
		ui.Fail(fmt.Sprintf("item index out of range: have %d, got %d", len(l.Items), userIndex))
		fmt.Fprintln(os.Stderr, ui.C("\033[90m", "Hint: run `tuido show <list-index>` to see valid indexes"))
		return model.Item{}, 2
	}
	it := l.Items[userIndex-1]
	if it.Synthetic {
		ui.Fail("item has no server id and cannot be modified")
		return model.Item{}, 1
	}
	return it, 0
}

// ---------------------------------------------------
// rendering helpers
// ---------------------------------------------------

func flatLines(items []model.Item) []string {
	if len(items) == 0 {
		return []string{ui.C(ui.Current().Muted, "no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		idx := fmt.Sprintf("%2d.", i+1)
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.Dim(idx), ui.Checkbox(it.Checked), ui.Truncate(it.Label, 80)))
	}
	return out
}

func groupLines(items []model.Item) []string {
	var pend, done []model.Item
	for _, it := range items {
		if it.Checked {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, ui.C(ui.Current().Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
