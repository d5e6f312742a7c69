/*
 * Lakegen (C) 2025-2026 Lakegen Authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package datagen

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxapi "github.com/influxdata/influxdb-client-go/v2/api"
)

// Metrics streams per-chunk generation and upload timings to InfluxDB.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	client   influxdb2.Client
	writeAPI influxapi.WriteAPI
	tags     map[string]string
	ch       chan chunkEvent
	wg       sync.WaitGroup
}

type chunkEvent struct {
	table  string
	rows   int
	bytes  int64
	dur    time.Duration
	failed bool
}

type chunkStats struct {
	chunks int
	errors int
	rows   int64
	bytes  int64
	dur    time.Duration
}

func (s *chunkStats) add(ev chunkEvent) {
	s.chunks++
	if ev.failed {
		s.errors++
		return
	}
	s.rows += int64(ev.rows)
	s.bytes += ev.bytes
	s.dur += ev.dur
}

// NewMetrics connects to InfluxDB. The URL carries the token as user
// info and bucket/org as the path: http://token@host:8086/bucket/org.
// Query parameters become extra tags on every point.
func NewMetrics(rawURL string) (*Metrics, error) {
	u, err := parseMetricsURL(rawURL)
	if err != nil {
		return nil, err
	}
	token := ""
	if u.User != nil {
		token = u.User.Username()
	}
	tags := make(map[string]string)
	if len(u.RawQuery) > 0 {
		values, err := url.ParseQuery(u.RawQuery)
		if err != nil {
			return nil, fmt.Errorf("influxdb: unable to parse tags: %w", err)
		}
		for key, tag := range values {
			if len(tag) > 0 && len(key) > 0 {
				tags[key] = tag[0]
			}
		}
	}
	tags["run_id"] = randASCII(8)
	if hostname, err := os.Hostname(); err == nil {
		tags["client"] = hostname
	}

	serverURL := u.Scheme + "://" + u.Host
	client := influxdb2.NewClientWithOptions(serverURL, token,
		influxdb2.DefaultOptions().SetMaxRetryTime(1000).SetMaxRetries(2))
	{
		to, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if ok, err := client.Ping(to); !ok {
			client.Close()
			return nil, fmt.Errorf("influxdb: unable to reach server: %w", err)
		}
	}
	path := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	writeAPI := client.WriteAPI(path[1], path[0])

	m := &Metrics{
		client:   client,
		writeAPI: writeAPI,
		tags:     tags,
		ch:       make(chan chunkEvent, 10000),
	}
	m.wg.Add(1)
	go m.loop()
	return m, nil
}

// RecordChunk reports one finished chunk. Safe on a nil receiver.
func (m *Metrics) RecordChunk(table string, rows int, bytes int64, dur time.Duration, err error) {
	if m == nil {
		return
	}
	m.ch <- chunkEvent{table: table, rows: rows, bytes: bytes, dur: dur, failed: err != nil}
}

// Close flushes buffered points and shuts down the client. Safe on a
// nil receiver.
func (m *Metrics) Close() {
	if m == nil {
		return
	}
	close(m.ch)
	m.wg.Wait()
	m.client.Close()
}

func (m *Metrics) loop() {
	defer m.wg.Done()

	perTable := make(map[string]*chunkStats)
	totals := make(map[string]*chunkStats)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-m.ch:
			if !ok {
				m.flush(perTable)
				m.summarize(totals)
				m.writeAPI.Flush()
				return
			}
			stats := perTable[ev.table]
			if stats == nil {
				stats = &chunkStats{}
				perTable[ev.table] = stats
			}
			stats.add(ev)
			total := totals[ev.table]
			if total == nil {
				total = &chunkStats{}
				totals[ev.table] = total
			}
			total.add(ev)

		case <-ticker.C:
			m.flush(perTable)
		}
	}
}

func (m *Metrics) flush(perTable map[string]*chunkStats) {
	for table, stats := range perTable {
		if stats.chunks == 0 {
			continue
		}
		p := influxdb2.NewPointWithMeasurement("lakegen")
		p.AddTag("table", table)
		for key, tag := range m.tags {
			p.AddTag(key, tag)
		}
		p.AddField("chunks", stats.chunks)
		p.AddField("errors", stats.errors)
		p.AddField("rows", stats.rows)
		p.AddField("bytes_total", stats.bytes)
		if n := stats.chunks - stats.errors; n > 0 {
			p.AddField("chunk_avg_secs", stats.dur.Seconds()/float64(n))
		}
		m.writeAPI.WritePoint(p)
		*stats = chunkStats{}
	}
}

func (m *Metrics) summarize(totals map[string]*chunkStats) {
	for table, stats := range totals {
		p := influxdb2.NewPointWithMeasurement("lakegen_run_summary")
		p.AddTag("table", table)
		for key, tag := range m.tags {
			p.AddTag(key, tag)
		}
		p.AddField("chunks", stats.chunks)
		p.AddField("errors", stats.errors)
		p.AddField("rows", stats.rows)
		p.AddField("bytes_total", stats.bytes)
		p.AddField("upload_total_secs", stats.dur.Seconds())
		m.writeAPI.WritePoint(p)
	}
}

func parseMetricsURL(s string) (*url.URL, error) {
	if s == "" {
		return nil, errors.New("influxdb: empty URL")
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "":
		return nil, errors.New("influxdb: no scheme specified (http/https)")
	case "http", "https":
	default:
		return nil, fmt.Errorf("influxdb: unknown scheme %s - must be http/https", u.Scheme)
	}
	path := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	if len(path) != 2 {
		return nil, fmt.Errorf("influxdb: unexpected path. Want 'bucket/org', got '%s'", strings.TrimPrefix(u.Path, "/"))
	}
	if len(path[0]) == 0 {
		return nil, errors.New("influxdb: empty bucket specified")
	}
	return u, nil
}

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randASCII(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = asciiLetters[rand.IntN(len(asciiLetters))]
	}
	return string(b)
}
