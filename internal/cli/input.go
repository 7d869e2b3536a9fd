// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/chmc/listall/internal/logger"
	"github.com/chmc/listall/internal/utils"
	"github.com/chmc/listall/pkg/store"
	"github.com/chmc/listall/pkg/suggest"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"})
	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#8839ef", Dark: "#cba6f7"})
	dimStyle = lipgloss.NewStyle().Faint(true)
)

// InputHandler processes user input from stdin, producing ranked suggestions.
// Lines starting with ':' are store commands; everything else is treated as
// a query against the current scope.
type InputHandler struct {
	engine       *suggest.Engine
	items        store.Store
	scope        suggest.Scope
	maxQueryLen  int
	requestCount int
	out          *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(engine *suggest.Engine, items store.Store, listID string, maxQueryLen int) *InputHandler {
	return &InputHandler{
		engine:      engine,
		items:       items,
		scope:       suggest.Scope{ListID: listID},
		maxQueryLen: maxQueryLen,
		out:         logger.New(""),
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	h.out.Print("ListServe CLI")
	reader := bufio.NewReader(os.Stdin)
	h.out.Print("type a query and press Enter to see suggestions (Ctrl+C to exit):")
	h.out.Print("commands: :add <list> <title>   :rm <id>   :x <id>   :list <id|*>   :stats")

	for {
		h.out.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			h.handleCommand(line)
			continue
		}
		h.handleQuery(line)
	}
}

// handleCommand runs a store command so suggesting can be exercised against
// live mutations without a msgpack client.
func (h *InputHandler) handleCommand(line string) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":add":
		if len(fields) < 3 {
			log.Error("usage: :add <list> <title>")
			return
		}
		item, err := h.items.Put(store.Item{
			ListID: fields[1],
			Title:  strings.Join(fields[2:], " "),
		})
		if err != nil {
			log.Errorf("add failed: %v", err)
			return
		}
		h.out.Printf("added %s to %s as %s", item.Title, item.ListID, item.ID)
	case ":rm":
		if len(fields) != 2 {
			log.Error("usage: :rm <id>")
			return
		}
		if err := h.items.Delete(fields[1]); err != nil {
			log.Errorf("delete failed: %v", err)
			return
		}
		h.out.Printf("removed %s", fields[1])
	case ":x":
		if len(fields) != 2 {
			log.Error("usage: :x <id>")
			return
		}
		if err := h.items.SetCrossed(fields[1], true); err != nil {
			log.Errorf("cross failed: %v", err)
			return
		}
		h.out.Printf("crossed out %s", fields[1])
	case ":list":
		if len(fields) != 2 {
			log.Error("usage: :list <id|*>")
			return
		}
		if fields[1] == "*" {
			h.scope = suggest.Scope{}
			h.out.Print("scope: all lists")
			return
		}
		h.scope = suggest.Scope{ListID: fields[1]}
		h.out.Printf("scope: list %s", fields[1])
	case ":stats":
		for k, v := range h.engine.Stats() {
			h.out.Printf("%s: %d", k, v)
		}
	default:
		log.Errorf("unknown command: %s", fields[0])
	}
}

// handleQuery processes a single query and displays ranked suggestions.
func (h *InputHandler) handleQuery(query string) {
	h.requestCount++

	if !utils.IsValidQuery(query, h.maxQueryLen) {
		log.Warnf("Query rejected by input filter: '%s'", query)
		return
	}

	start := time.Now()
	log.Debug("Processing request for", "query", query)

	suggestions := h.engine.Suggest(query, h.scope, "")

	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for query '%s'", elapsed, query)

	if len(suggestions) == 0 {
		log.Warnf("No suggestions found for query: '%s'", query)
		return
	}

	h.out.Printf("Found %d suggestions for query '%s':", len(suggestions), query)
	for i, s := range suggestions {
		detail := dimStyle.Render(fmt.Sprintf("used %dx, last %s ago",
			s.Occurrences, time.Since(s.LastUsed).Round(time.Minute)))
		h.out.Printf("%2d. %-40s %s  %s", i+1,
			titleStyle.Render(s.Title),
			scoreStyle.Render(fmt.Sprintf("%6.2f", s.Score)),
			detail)
	}
}
