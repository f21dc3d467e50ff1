package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/coincortex/coincortex/internal/asset"
	"github.com/coincortex/coincortex/internal/config"
	"github.com/coincortex/coincortex/internal/trading"
)

// BatchStatus tracks one symbol's progress inside a batch run.
type BatchStatus int

const (
	BatchPending BatchStatus = iota
	BatchRunning
	BatchCompleted
	BatchFailed
)

func (bs BatchStatus) String() string {
	switch bs {
	case BatchPending:
		return "pending"
	case BatchRunning:
		return "running"
	case BatchCompleted:
		return "completed"
	case BatchFailed:
		return "failed"
	}
	return "unknown"
}

type batchItem struct {
	Symbol   string
	Status   BatchStatus
	Action   string
	Err      error
	Duration time.Duration
}

// BatchManager runs analyses for multiple symbols with bounded concurrency.
type BatchManager struct {
	config *config.Config
}

func NewBatchManager(cfg *config.Config) *BatchManager {
	return &BatchManager{config: cfg}
}

// RunBatchAnalysis analyzes every symbol for the given date. Invalid symbols
// are reported and skipped; the rest run with at most concurrent workers.
func (bm *BatchManager) RunBatchAnalysis(symbols []string, date string, concurrent int) error {
	valid, invalid := bm.ValidateSymbols(symbols)
	for _, symbol := range invalid {
		DisplayError(fmt.Errorf("skipping invalid symbol %q", symbol))
	}
	if len(valid) == 0 {
		return fmt.Errorf("no valid symbols to analyze")
	}
	if concurrent < 1 {
		concurrent = 1
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}

	DisplayInfo(fmt.Sprintf("Batch analysis: %d symbols, %d concurrent, date %s", len(valid), concurrent, date))

	items := make([]batchItem, len(valid))
	for i, symbol := range valid {
		items[i] = batchItem{Symbol: symbol, Status: BatchPending}
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, concurrent)
	)
	for i := range items {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			bm.runOne(&mu, &items[idx], date)
		}(i)
	}
	wg.Wait()

	bm.displaySummary(items, date)
	return nil
}

func (bm *BatchManager) runOne(mu *sync.Mutex, item *batchItem, date string) {
	mu.Lock()
	item.Status = BatchRunning
	mu.Unlock()
	DisplayInfo(fmt.Sprintf("Analyzing %s (%s)...", item.Symbol, asset.Classify(item.Symbol)))

	started := time.Now()
	session := trading.NewSession(bm.config.Clone(), item.Symbol, date)
	_, decision, err := session.Execute(context.Background())

	mu.Lock()
	defer mu.Unlock()
	item.Duration = time.Since(started)
	if err != nil {
		item.Status = BatchFailed
		item.Err = err
		DisplayError(fmt.Errorf("%s failed: %w", item.Symbol, err))
		return
	}
	item.Status = BatchCompleted
	if decision != nil {
		item.Action = decision.Action
	}
	DisplaySuccess(fmt.Sprintf("%s done in %s", item.Symbol, item.Duration.Round(time.Second)))
}

func (bm *BatchManager) displaySummary(items []batchItem, date string) {
	fmt.Println()
	fmt.Println(strings.Repeat("═", 60))
	fmt.Printf("  BATCH SUMMARY (%s)\n", date)
	fmt.Println(strings.Repeat("═", 60))

	completed, failed := 0, 0
	for _, item := range items {
		line := fmt.Sprintf("%-10s %-10s", item.Symbol, item.Status)
		switch item.Status {
		case BatchCompleted:
			completed++
			line += fmt.Sprintf(" %-5s %s", item.Action, item.Duration.Round(time.Second))
		case BatchFailed:
			failed++
			line += " " + item.Err.Error()
		}
		fmt.Println(line)
	}

	fmt.Println(strings.Repeat("─", 60))
	fmt.Printf("Completed: %d | Failed: %d | Total: %d\n", completed, failed, len(items))
}

// LoadSymbolsFromFile reads one symbol per line, skipping blanks and comments.
func (bm *BatchManager) LoadSymbolsFromFile(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open symbols file: %w", err)
	}
	defer file.Close()

	var symbols []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		symbols = append(symbols, strings.ToUpper(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read symbols file: %w", err)
	}
	return symbols, nil
}

// ValidateSymbols splits symbols into valid and invalid lists.
func (bm *BatchManager) ValidateSymbols(symbols []string) (valid, invalid []string) {
	seen := make(map[string]bool)
	for _, raw := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(raw))
		if symbol == "" || len(symbol) > 10 || !tickerRE.MatchString(symbol) {
			invalid = append(invalid, raw)
			continue
		}
		if seen[symbol] {
			continue
		}
		seen[symbol] = true
		valid = append(valid, symbol)
	}
	return valid, invalid
}
