package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gamelib/lrucache"
	"github.com/gamelib/lrucache/catalog"
)

type simulateOptions struct {
	workers    int
	ops        int
	games      int
	companies  int
	writeRatio float64
	seed       uint64
}

var simOpts simulateOptions

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run concurrent catalog traffic and report cache statistics",
	Long: `simulate seeds an in-memory catalog, then runs workers that issue rating
queries and company lookups through the cached services, with an occasional
game write that invalidates the query cache.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		if simOpts.workers <= 0 || simOpts.ops <= 0 || simOpts.games <= 0 || simOpts.companies <= 0 {
			return fmt.Errorf("workers, ops, games and companies must be positive")
		}

		svc, err := newServices(cfg, logger)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := seed(ctx, svc, simOpts); err != nil {
			return err
		}

		start := time.Now()
		if err := runWorkers(ctx, svc, simOpts, logger); err != nil {
			return err
		}
		elapsed := time.Since(start)

		renderSummary(cmd.OutOrStdout(), svc, simOpts, elapsed)
		return nil
	},
}

func init() {
	f := simulateCmd.Flags()
	f.IntVarP(&simOpts.workers, "workers", "w", 8, "concurrent workers")
	f.IntVarP(&simOpts.ops, "ops", "n", 10000, "operations per worker")
	f.IntVar(&simOpts.games, "games", 200, "games to seed")
	f.IntVar(&simOpts.companies, "companies", 50, "companies to seed")
	f.Float64Var(&simOpts.writeRatio, "write-ratio", 0.01, "fraction of operations that rewrite a game's reviews")
	f.Uint64Var(&simOpts.seed, "seed", 1, "random seed")
	rootCmd.AddCommand(simulateCmd)
}

func randomReviews(r *rand.Rand) []catalog.Review {
	out := make([]catalog.Review, 1+r.IntN(5))
	for i := range out {
		out[i] = catalog.Review{Rating: 1 + r.IntN(5)}
	}
	return out
}

func seed(ctx context.Context, svc *services, opts simulateOptions) error {
	r := rand.New(rand.NewPCG(opts.seed, 0))

	companies := make([]catalog.Company, opts.companies)
	for i := range companies {
		companies[i] = catalog.Company{Name: fmt.Sprintf("Studio %03d", i+1), FoundedYear: 1980 + r.IntN(45)}
	}
	if _, err := svc.companies.CreateCompanies(ctx, companies); err != nil {
		return fmt.Errorf("seed companies: %w", err)
	}

	for i := range opts.games {
		g := catalog.Game{
			Title:      fmt.Sprintf("Game %04d", i+1),
			Genre:      []string{"action", "puzzle", "strategy", "rpg"}[r.IntN(4)],
			CompanyIDs: []int64{1 + r.Int64N(int64(opts.companies))},
			Reviews:    randomReviews(r),
		}
		if _, err := svc.gameStore.Create(ctx, g); err != nil {
			return fmt.Errorf("seed games: %w", err)
		}
	}
	return nil
}

func runWorkers(ctx context.Context, svc *services, opts simulateOptions, logger *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	for w := range opts.workers {
		g.Go(func() error {
			r := rand.New(rand.NewPCG(opts.seed, uint64(w)+1))
			for range opts.ops {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := step(ctx, svc, opts, r); err != nil {
					return fmt.Errorf("worker %d: %w", w, err)
				}
			}
			logger.Debug("worker finished", "worker", w)
			return nil
		})
	}
	return g.Wait()
}

func step(ctx context.Context, svc *services, opts simulateOptions, r *rand.Rand) error {
	if r.Float64() < opts.writeRatio {
		id := 1 + r.Int64N(int64(opts.games))
		_, err := svc.games.PatchGame(ctx, id, catalog.Game{Reviews: randomReviews(r)})
		return err
	}

	switch r.IntN(4) {
	case 0, 1:
		_, err := svc.games.GamesByMinimumRating(ctx, 1+r.IntN(5))
		return err
	case 2:
		lo := 1 + r.IntN(5)
		_, err := svc.games.GamesByRatingRange(ctx, lo, lo+r.IntN(6-lo))
		return err
	default:
		_, err := svc.companies.GetCompany(ctx, 1+r.Int64N(int64(opts.companies)))
		return err
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func renderSummary(w io.Writer, svc *services, opts simulateOptions, elapsed time.Duration) {
	total := opts.workers * opts.ops

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d operations by %d workers in %s", total, opts.workers, elapsed.Round(time.Millisecond))))
	b.WriteString("\n\n")

	row := func(cells ...string) string {
		return fmt.Sprintf("%-14s %8s %8s %8s %8s %8s %14s", toAny(cells)...)
	}
	stat := func(s lrucache.Snapshot, stored, capacity int) string {
		return row(
			s.Name,
			fmt.Sprint(s.Hits),
			fmt.Sprint(s.Misses),
			fmt.Sprintf("%.1f%%", s.HitRate()*100),
			fmt.Sprint(s.Evictions),
			fmt.Sprint(s.Expirations),
			fmt.Sprintf("%d/%d", stored, capacity),
		)
	}

	b.WriteString(headerStyle.Render(row("cache", "hits", "misses", "rate", "evicted", "expired", "stored/cap")))
	b.WriteString("\n")
	b.WriteString(stat(svc.games.CacheStats(), svc.gameCache.Len(), svc.gameCache.Capacity()))
	b.WriteString("\n")
	b.WriteString(stat(svc.companies.CacheStats(), svc.companyCache.Len(), svc.companyCache.Capacity()))
	b.WriteString("\n")
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("store: %d rating queries, %d company lookups",
		svc.gameStore.Queries(), svc.companyStore.Lookups())))
	b.WriteString("\n")

	io.WriteString(w, b.String())
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
