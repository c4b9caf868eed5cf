// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats records the time, memory allocated and garbage collections at a
// given point, such that the cost of some subsequent work can be reported.
type PerfStats struct {
	startTime    time.Time
	startMem     uint64
	startMallocs uint64
	startGc      uint32
}

// NewPerfStats creates a new snapshot of the current time and memory allocated.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats

	startTime := time.Now()

	runtime.ReadMemStats(&m)

	return &PerfStats{startTime, m.TotalAlloc, m.Mallocs, m.NumGC}
}

// Log (at debug level) the difference between the state now and as it was
// when the PerfStats object was created.
func (p *PerfStats) Log(prefix string) {
	var m runtime.MemStats

	runtime.ReadMemStats(&m)
	alloc := float64(m.TotalAlloc-p.startMem) / 1024 / 1024
	mallocs := m.Mallocs - p.startMallocs
	gcs := m.NumGC - p.startGc
	exectime := time.Since(p.startTime)

	log.Debugf("%s took %s allocating %0.2f Mb in %d objects (%d GC events)", prefix, exectime, alloc, mallocs, gcs)
}
