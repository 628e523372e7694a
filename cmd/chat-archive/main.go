// Command chat-archive copies the history of one channel into Postgres,
// resuming after the newest message archived by the previous run.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/color"
	_ "github.com/lib/pq"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"github.com/nrfta/chat-paging-go"
	"github.com/nrfta/chat-paging-go/checkpoint"
	"github.com/nrfta/chat-paging-go/iterators"
	"github.com/nrfta/chat-paging-go/model"
	"github.com/nrfta/chat-paging-go/rest"
	"github.com/nrfta/chat-paging-go/snowflake"
	"github.com/nrfta/chat-paging-go/store"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat-archive: %v\n", err)
	}
	os.Exit(code)
}

// summary is what a run reports once the history is drained or interrupted.
type summary struct {
	channel  snowflake.ID
	runID    uuid.UUID
	resumed  *snowflake.ID
	last     *snowflake.ID
	batches  int
	fetched  int
	inserted int64
	elapsed  time.Duration
	meta     paging.Metadata
}

func run() (int, error) {
	config, err := loadConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", config.DatabaseURL)
	if err != nil {
		return exitRuntime, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return exitRuntime, fmt.Errorf("ping database: %w", err)
	}

	archive := store.New(db)
	if err := archive.Migrate(ctx); err != nil {
		return exitRuntime, err
	}

	checkpoints, err := checkpoint.Open(config.CheckpointPath)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		log.Info("Closing checkpoints...")
		_ = checkpoints.Close()
	}()

	client := rest.New(config.Token,
		rest.WithBaseURL(config.APIURL),
		rest.WithHTTPClient(&http.Client{Timeout: config.HTTPTimeout}),
		rest.WithLogger(log),
	)

	start := time.Now()
	s, err := archiveChannel(ctx, log, config, client, archive, checkpoints)
	s.elapsed = time.Since(start)
	s.render(os.Stdout)

	switch {
	case errors.Is(err, context.Canceled):
		log.Warn("Archive interrupted", "channel", config.channel)
		return exitOK, nil
	case err != nil:
		return exitRuntime, err
	}
	return exitOK, nil
}

// archiveChannel walks the channel oldest first from its checkpoint, saving
// each batch before advancing the checkpoint to the batch's newest message.
func archiveChannel(
	ctx context.Context,
	log *slog.Logger,
	config Config,
	client iterators.HistoryClient,
	archive *store.Store,
	checkpoints *checkpoint.Store,
) (summary, error) {
	s := summary{channel: config.channel, runID: uuid.New()}

	// without a checkpoint, after=0 starts at the oldest message
	last, ok, err := checkpoints.Load(config.channel)
	if err != nil {
		return s, err
	}
	if ok {
		s.resumed = &last
		log.Info("Resuming from checkpoint", "channel", config.channel, "after", last)
	}

	opts := iterators.HistoryOptions{
		ChannelID:   config.channel,
		After:       snowflake.Of(last),
		Limit:       config.Limit,
		OldestFirst: lo.ToPtr(true),
	}

	history, err := iterators.NewHistory(client, model.NewMemoryState(0), opts,
		paging.WithLogger(log),
		paging.WithName("history"),
	)
	if err != nil {
		return s, err
	}
	batches, err := paging.Chunk(history, config.BatchSize)
	if err != nil {
		return s, err
	}

	err = paging.ForEachContext(ctx, batches, func(ctx context.Context, batch []*model.Message) error {
		n, err := archive.SaveMessages(ctx, s.runID, batch)
		if err != nil {
			return err
		}
		newest := batch[len(batch)-1].ID
		if err := checkpoints.Save(config.channel, newest); err != nil {
			return err
		}

		s.batches++
		s.fetched += len(batch)
		s.inserted += n
		s.last = &newest
		log.Debug("Batch archived", "channel", config.channel, "size", len(batch), "inserted", n, "newest", newest)
		return nil
	})
	s.meta = history.Metadata()
	return s, err
}

func (s summary) render(w io.Writer) {
	header := fmt.Sprintf("  ====== archive %s ======", s.channel)
	fmt.Fprintln(w, color.New(color.BgBlack, color.FgGreen).Render(header))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	table.Append([]string{"Run", s.runID.String()})
	table.Append([]string{"Resumed after", idOrDash(s.resumed)})
	table.Append([]string{"Newest archived", idOrDash(s.last)})
	table.Append([]string{"Batches", strconv.Itoa(s.batches)})
	table.Append([]string{"Messages fetched", strconv.Itoa(s.fetched)})
	table.Append([]string{"Messages inserted", strconv.FormatInt(s.inserted, 10)})
	table.Append([]string{"Requests", strconv.Itoa(s.meta.IterationsUsed)})
	table.Append([]string{"Items examined", strconv.Itoa(s.meta.ItemsExamined)})
	table.Append([]string{"Query time", (time.Duration(s.meta.QueryTimeMs) * time.Millisecond).String()})
	table.Append([]string{"Elapsed", s.elapsed.Round(time.Millisecond).String()})
	table.Render()
}

func idOrDash(id *snowflake.ID) string {
	if id == nil {
		return "-"
	}
	return id.String()
}
