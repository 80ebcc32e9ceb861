package main

import (
	"fmt"
	"io"
	"slices"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/casino-floor-simulation/eventstore"
	"github.com/AntonStoeckl/casino-floor-simulation/shell"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recorded events from the journal or an archive file",
	Args:  cobra.NoArgs,
	RunE:  listEvents,
}

func init() {
	eventsCmd.Flags().String("journal", journalSQLite, "event journal to query: postgres or sqlite")
	eventsCmd.Flags().String("archive", "", "read this .jsonl.zst archive file instead of a journal")
	eventsCmd.Flags().StringSlice("type", nil, "only events of these types (repeatable)")
	eventsCmd.Flags().String("customer", "", "only events about this customer id")
	eventsCmd.Flags().Duration("since", 0, "only events that occurred within this duration before now")
	eventsCmd.Flags().Uint("limit", 100, "maximum number of events (0: no limit)")
	eventsCmd.Flags().Bool("json", false, "print one JSON object per line")
	rootCmd.AddCommand(eventsCmd)
}

type eventQuery struct {
	types    []string
	customer string
	since    time.Time
	limit    uint
}

func (q eventQuery) filter() eventstore.Filter {
	fb := eventstore.BuildEventFilter().Limit(q.limit)

	if len(q.types) > 0 {
		fb = fb.OfEventTypes(q.types[0], q.types[1:]...)
	}

	if q.customer != "" {
		fb = fb.WithPredicates(eventstore.P("CustomerID", q.customer))
	}

	if !q.since.IsZero() {
		fb = fb.OccurredFrom(q.since)
	}

	return fb.Finalize()
}

// apply filters events read from an archive the way the journal engines filter their tables.
func (q eventQuery) apply(events eventstore.StorableEvents) eventstore.StorableEvents {
	matched := make(eventstore.StorableEvents, 0)

	for _, event := range events {
		if len(q.types) > 0 && !slices.Contains(q.types, event.EventType) {
			continue
		}

		if !q.since.IsZero() && event.OccurredAt.Before(q.since) {
			continue
		}

		if q.customer != "" {
			metadata, err := shell.EventMetadataFrom(event)
			if err != nil || metadata.CausationID != q.customer {
				continue
			}
		}

		matched = append(matched, event)
		if q.limit > 0 && uint(len(matched)) >= q.limit {
			break
		}
	}

	return matched
}

func listEvents(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	journalKind, _ := flags.GetString("journal")
	archivePath, _ := flags.GetString("archive")
	asJSON, _ := flags.GetBool("json")

	var q eventQuery
	q.types, _ = flags.GetStringSlice("type")
	q.customer, _ = flags.GetString("customer")
	q.limit, _ = flags.GetUint("limit")

	if since, _ := flags.GetDuration("since"); since > 0 {
		q.since = time.Now().Add(-since)
	}

	var events eventstore.StorableEvents

	if archivePath != "" {
		all, err := shell.ReadArchive(archivePath)
		if err != nil {
			return err
		}

		events = q.apply(all)
	} else {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		j, db, err := openJournal(cmd.Context(), journalKind, logger, telemetry{})
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if events, err = j.Query(cmd.Context(), q.filter()); err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
	}

	return printEvents(cmd.OutOrStdout(), events, asJSON)
}

type eventLine struct {
	SequenceNumber uint64              `json:"sequence_number,omitempty"`
	EventType      string              `json:"event_type"`
	OccurredAt     time.Time           `json:"occurred_at"`
	Payload        jsoniter.RawMessage `json:"payload"`
}

func printEvents(out io.Writer, events eventstore.StorableEvents, asJSON bool) error {
	for _, event := range events {
		if asJSON {
			b, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(eventLine{
				SequenceNumber: event.SequenceNumber,
				EventType:      event.EventType,
				OccurredAt:     event.OccurredAt,
				Payload:        event.PayloadJSON,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(out, string(b))

			continue
		}

		domainEvent, err := shell.DomainEventFrom(event)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(out, "%8d  %s  %-24s %+v\n",
			event.SequenceNumber,
			event.OccurredAt.Format(time.RFC3339Nano),
			event.EventType,
			domainEvent,
		)
	}

	return nil
}
