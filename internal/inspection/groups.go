// Copyright 2026 The Inspectly Authors
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

package inspection

import "sort"

// RoomGroup is the photos of one room, in creation order
type RoomGroup struct {
	Room   string
	Photos []*Photo
}

// GroupByRoom groups photos by room label for display and report
// rendering. Group order is the lexicographic order of the distinct room
// names; within a group photos keep creation order. The result is fully
// deterministic: identical input always yields identical output, which the
// report compiler relies on for reproducible artifacts.
func GroupByRoom(photos []*Photo) []RoomGroup {
	byRoom := make(map[string][]*Photo)
	rooms := make([]string, 0)
	for _, p := range photos {
		if _, seen := byRoom[p.Room]; !seen {
			rooms = append(rooms, p.Room)
		}
		byRoom[p.Room] = append(byRoom[p.Room], p)
	}
	sort.Strings(rooms)

	groups := make([]RoomGroup, 0, len(rooms))
	for _, room := range rooms {
		ps := byRoom[room]
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Position < ps[j].Position })
		groups = append(groups, RoomGroup{Room: room, Photos: ps})
	}
	return groups
}
