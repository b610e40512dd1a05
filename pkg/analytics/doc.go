/*
Package analytics is the rollup and forecasting core of TicketPulse.

# Daily Rollups

A rollup is a precomputed per-day summary of the raw ticket and user records:
ticket counts, revenue, per-event breakdowns and engagement. Exactly one
rollup exists per calendar date, stored in the analytics collection under
"daily_" + YYYY-MM-DD. Recomputing a date replaces the stored value wholesale
(idempotent upsert): the same raw data always produces the same metric
content, which the Checksum field makes checkable.

# Read Path

Range assembles [start, end] in ascending date order. Missing dates are
backfilled on demand by running the processor, which persists the result, so
a repeated range query does not recompute. A date that fails to compute is
logged and skipped rather than failing the whole range.

The ordered range feeds three pure consumers:

  - Growth: day/week/month-over-comparable percentage change of one metric,
    using 7- and 30-entry lookbacks.
  - Summarize: totals, per-day averages, best and worst day.
  - PredictTrends: ordinary-least-squares fit of the ticket and revenue
    series, projected a few days ahead. Needs at least 7 days of history.

# Retention

Cleanup deletes rollups processed before a cutoff. Per-record delete failures
are logged and skipped so one bad record cannot wedge retention.

# Concurrency

The engine holds no mutable state. Two callers backfilling the same date race
harmlessly: both compute the same content and the last upsert wins.
*/
package analytics
