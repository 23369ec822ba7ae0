/*
 * This file is part of ccbench.
 *
 * ccbench is free software: you can redistribute it and/or modify it under
 * the terms of the GNU General Public License as published by the Free Software Foundation,
 * either version 2 of the License, or (at your option) any later version.
 * ccbench is distributed in the hope that it will be useful, but WITHOUT ANY
 * WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A
 * PARTICULAR PURPOSE. See the GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with ccbench. If not, see <https://www.gnu.org/licenses/>.
 */

// Package catalog is the run-descriptor catalog: the static table of
// emulated network profiles and the ordered list of congestion-control
// schemes to evaluate. A Catalog is an immutable value handed to the
// runner and the summary generator at construction time; nothing in it
// changes for the lifetime of an experiment.
package catalog

import "fmt"

// Profile is one emulated network condition: a one-way propagation
// delay plus a downlink/uplink bandwidth trace pair for mm-link.
type Profile struct {
	ID            string
	Name          string
	LatencyMs     int
	DownlinkTrace string
	UplinkTrace   string
}

func (p Profile) String() string {
	return fmt.Sprintf("%s: %s (latency = %d ms)", p.ID, p.Name, p.LatencyMs)
}

// Catalog holds the profiles and schemes whose cross product defines
// the run matrix. Iteration order is the declaration order: profiles
// outer, schemes inner.
type Catalog struct {
	Profiles []Profile
	Schemes  []string
}

// Default returns the catalog the harness was built around: two LTE
// trace profiles at opposite ends of the latency range and three
// congestion-control schemes.
func Default() Catalog {
	return Catalog{
		Profiles: []Profile{
			{
				ID:            "1",
				Name:          "LTE (Low Latency)",
				LatencyMs:     5,
				DownlinkTrace: "mahimahi/traces/TMobile-LTE-driving.down",
				UplinkTrace:   "mahimahi/traces/TMobile-LTE-driving.up",
			},
			{
				ID:            "2",
				Name:          "LTE (High Latency)",
				LatencyMs:     200,
				DownlinkTrace: "mahimahi/traces/TMobile-LTE-short.down",
				UplinkTrace:   "mahimahi/traces/TMobile-LTE-short.up",
			},
		},
		Schemes: []string{"cubic", "fillp_sheep", "vegas"},
	}
}

func (c Catalog) Lookup(profileID string) (Profile, bool) {
	for _, p := range c.Profiles {
		if p.ID == profileID {
			return p, true
		}
	}
	return Profile{}, false
}

// Contains reports whether the (profile, scheme) pair is part of the
// run matrix.
func (c Catalog) Contains(profileID string, scheme string) bool {
	if _, found := c.Lookup(profileID); !found {
		return false
	}
	for _, s := range c.Schemes {
		if s == scheme {
			return true
		}
	}
	return false
}

// Size is the number of (profile, scheme) pairs in the run matrix.
func (c Catalog) Size() int {
	return len(c.Profiles) * len(c.Schemes)
}
