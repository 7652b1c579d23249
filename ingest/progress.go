// Copyright 2025 Textloom
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingest

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ProgressTracker reports run progress through structured log events at a
// fixed row interval. Safe for concurrent use.
type ProgressTracker struct {
	logger       *slog.Logger
	total        int
	interval     int
	current      int
	chunks       int
	lastReported int
	startTime    time.Time
	started      bool
	mu           sync.Mutex
}

// NewProgressTracker creates a tracker reporting every interval rows out of
// total. A nil logger uses slog.Default().
func NewProgressTracker(logger *slog.Logger, total, interval int) *ProgressTracker {
	if logger == nil {
		logger = slog.Default()
	}
	if interval < 1 {
		interval = 1
	}
	return &ProgressTracker{
		logger:   logger.With("component", "progress"),
		total:    total,
		interval: interval,
	}
}

// Start begins tracking and logs the run start.
func (p *ProgressTracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.current = 0
	p.chunks = 0
	p.lastReported = 0

	p.logger.Info("starting ingestion", "totalRows", p.total)
}

// Update sets the number of rows seen and chunks written so far, logging a
// progress event when a report interval is crossed.
func (p *ProgressTracker) Update(current, chunks int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current = current
	p.chunks = chunks

	if p.current-p.lastReported >= p.interval {
		p.report()
		p.lastReported = p.current
	}
}

// Committed logs a durable checkpoint of rows committed so far.
func (p *ProgressTracker) Committed(rows int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.logger.Info("committed batch", "rows", rows, "chunks", p.chunks)
}

// Finish logs the run summary.
func (p *ProgressTracker) Finish(summary *Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	elapsed := time.Since(p.startTime)
	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(p.current) / secs
	}

	p.logger.Info("ingestion complete",
		"processedRows", summary.ProcessedRows,
		"failedRows", summary.FailedRows,
		"totalChunks", summary.TotalChunks,
		"elapsed", elapsed.Round(time.Second).String(),
		"rowsPerSec", fmt.Sprintf("%.1f", rate))
}

// Elapsed returns the time since Start.
func (p *ProgressTracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}

// report logs a progress event. Must be called with the lock held.
func (p *ProgressTracker) report() {
	elapsed := time.Since(p.startTime)
	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(p.current) / secs
	}

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	var eta time.Duration
	if rate > 0 && p.current < p.total {
		eta = time.Duration(float64(p.total-p.current)/rate) * time.Second
	}

	p.logger.Info("progress",
		"rows", p.current,
		"total", p.total,
		"percentage", fmt.Sprintf("%.1f", percentage),
		"chunks", p.chunks,
		"rowsPerSec", fmt.Sprintf("%.1f", rate),
		"eta", eta.Round(time.Second).String())
}
