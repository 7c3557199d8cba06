package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trezcool/sokoni/core"
	"github.com/trezcool/sokoni/core/cart"
	"github.com/trezcool/sokoni/core/catalog"
	logsvc "github.com/trezcool/sokoni/services/logger"
	"github.com/trezcool/sokoni/services/marketplace"
	dummymkt "github.com/trezcool/sokoni/services/marketplace/dummy"
	"github.com/trezcool/sokoni/services/metrics"
	filekv "github.com/trezcool/sokoni/storage/kv/file"
)

const (
	catalogView = iota
	cartView
)

var sortCycle = []string{
	catalog.SortPopularity,
	catalog.SortRating,
	catalog.SortNewest,
	catalog.SortPriceAsc,
	catalog.SortPriceDesc,
}

type model struct {
	browser *catalog.Browser
	store   *cart.Store

	view    int
	cursor  int
	sortIdx int
	busy    bool
	status  string
}

type loadedMsg struct{ err error }

func fetchCmd(b *catalog.Browser, load bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if load {
			err = b.Load(context.Background())
		} else {
			err = b.Refresh(context.Background())
		}
		return loadedMsg{err: err}
	}
}

func (m model) Init() tea.Cmd {
	return fetchCmd(m.browser, true)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.view = (m.view + 1) % 2
			m.cursor = 0
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down":
			if m.cursor < m.listLen()-1 {
				m.cursor++
			}
		default:
			if m.view == catalogView {
				return m.updateCatalog(msg)
			}
			return m.updateCart(msg)
		}
	case loadedMsg:
		m.busy = false
		if msg.err != nil && msg.err != catalog.ErrStaleResponse {
			m.status = m.browser.Message()
		} else {
			m.status = ""
		}
		if m.cursor >= m.listLen() {
			m.cursor = 0
		}
	}
	return m, nil
}

func (m model) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch msg.String() {
	case "right":
		m.browser.NextPage()
		return m.fetch(false)
	case "left":
		m.browser.PrevPage()
		return m.fetch(false)
	case "s": // cycle sort; the browser resets to page 1 before the fetch
		m.sortIdx = (m.sortIdx + 1) % len(sortCycle)
		m.browser.SetSort(sortCycle[m.sortIdx])
		return m.fetch(false)
	case "c":
		m.sortIdx = 0
		m.browser.ClearFilters()
		return m.fetch(false)
	case "r":
		return m.fetch(false)
	case "enter":
		results := m.browser.Results()
		if m.cursor < len(results) {
			crs := results[m.cursor]
			m.store.Add(courseToItem(crs))
			m.status = fmt.Sprintf("Added %q to cart", crs.Title)
		}
	}
	return m, nil
}

func (m model) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.store.Items()
	switch msg.String() {
	case " ":
		if m.cursor < len(items) {
			m.store.Toggle(items[m.cursor].ID)
		}
	case "d", "backspace":
		if m.cursor < len(items) {
			m.store.Remove(items[m.cursor].ID)
			if m.cursor > 0 {
				m.cursor--
			}
		}
	}
	return m, nil
}

func (m model) fetch(load bool) (tea.Model, tea.Cmd) {
	m.busy = true
	m.status = "Loading..."
	return m, fetchCmd(m.browser, load)
}

func (m model) listLen() int {
	if m.view == catalogView {
		return len(m.browser.Results())
	}
	return len(m.store.Items())
}

func (m model) View() string {
	b := &strings.Builder{}
	if m.view == catalogView {
		m.viewCatalog(b)
	} else {
		m.viewCart(b)
	}
	if m.status != "" {
		fmt.Fprintf(b, "\n%s\n", m.status)
	}
	fmt.Fprintln(b, "\nControls: tab switch view, up/down select, q to quit")
	if m.view == catalogView {
		fmt.Fprintln(b, "          left/right page, s sort, c clear filters, enter add to cart")
	} else {
		fmt.Fprintln(b, "          space toggle selection, d remove")
	}
	return b.String()
}

func (m model) viewCatalog(b *strings.Builder) {
	pg := m.browser.Pager()
	fmt.Fprintf(b, "Sokoni — courses (page %d/%d, %d total, sort: %s)\n\n",
		pg.Page, pg.TotalPages, pg.TotalCount, sortCycle[m.sortIdx])

	for i, crs := range m.browser.Results() {
		marker := " "
		if i == m.cursor {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %-40s %-20s %s\n", marker, crs.Title, crs.Instructor, money(crs.Price))
	}
}

func (m model) viewCart(b *strings.Builder) {
	fmt.Fprintln(b, "Sokoni — cart")
	fmt.Fprintln(b, "")

	for i, it := range m.store.Items() {
		marker := " "
		if i == m.cursor {
			marker = ">"
		}
		check := "[ ]"
		if m.store.IsSelected(it.ID) {
			check = "[x]"
		}
		fmt.Fprintf(b, " %s %s %-40s %s\n", marker, check, it.Title, money(it.Price))
	}

	totals := m.store.Totals()
	fmt.Fprintf(b, "\nSubtotal: %s   Savings: %s   Total: %s\n",
		money(totals.Subtotal), money(totals.Savings), money(totals.Total))
}

func money(minor int) string {
	return fmt.Sprintf("$%d.%02d", minor/100, minor%100)
}

func courseToItem(crs catalog.Course) cart.Item {
	return cart.Item{
		ID:            crs.ID,
		Title:         crs.Title,
		Instructor:    crs.Instructor,
		Image:         crs.Image,
		Duration:      crs.Duration,
		Students:      crs.Students,
		Rating:        crs.Rating,
		RatingCount:   crs.RatingCount,
		Price:         crs.Price,
		OriginalPrice: crs.OriginalPrice,
		Discount:      crs.Discount,
		Tag:           crs.Tag,
	}
}

func main() {
	offline := flag.Bool("offline", false, "browse the canned catalog instead of the remote API")
	flag.Parse()

	conf := core.NewConfig()
	logger := logsvc.NewStdLogger(log.New(os.Stderr, "CLI : ", log.LstdFlags))

	kv, err := filekv.New(conf.Storage.Dir)
	if err != nil {
		log.Fatalf("setting up storage: %v", err)
	}
	store := cart.NewStore(kv, logger)

	var fetcher catalog.Fetcher
	if *offline {
		fetcher = dummymkt.NewClient()
	} else {
		fetcher = marketplace.NewClient(conf, logger)
	}

	browser := catalog.NewBrowser(
		catalog.NewEngine(conf.Catalog.PageSize, conf.Catalog.PriceCeiling),
		catalog.NewPager(conf.Catalog.PageSize),
		fetcher,
		logger,
	)
	browser.CountDiscards(metrics.NewFetchDiscards("cli"))

	// scrape endpoint for the session counters, on the debug address
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		if err := http.ListenAndServe(conf.Server.DebugAddr, mux); err != nil {
			logger.Warn(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	prog := tea.NewProgram(model{browser: browser, store: store})
	if _, err := prog.Run(); err != nil {
		log.Fatalf("running UI: %v", err)
	}
}
