package rooms

import (
	"fmt"
	"math"

	"github.com/tsawler/takeoff/model"
)

// boundaryTolerance is how close to a room edge a label may sit and still
// count as inside (points).
const boundaryTolerance = 1.0

// Label assigns recognized room names from text blocks to rooms. Each block
// is handled in order: the first unlabeled room containing it wins, else the
// nearest unlabeled centroid within MaxLabelDistance. Names used for more
// than one room get a numeric suffix in assignment order. With no rooms or
// no blocks the analysis is returned unchanged.
func (d *Detector) Label(a Analysis, blocks []model.TextBlock) Analysis {
	if len(a.Rooms) == 0 || len(blocks) == 0 {
		return a
	}

	vocab := d.config.Vocabulary
	assigned := make(map[int]string)
	var order []int

	for _, tb := range blocks {
		name, ok := vocab.Match(tb.Text)
		if !ok {
			continue
		}

		target := -1
		for i, r := range a.Rooms {
			if _, taken := assigned[i]; taken {
				continue
			}
			if r.Contains(tb.Position, boundaryTolerance) {
				target = i
				break
			}
		}

		if target < 0 {
			best := math.Inf(1)
			for i, r := range a.Rooms {
				if _, taken := assigned[i]; taken {
					continue
				}
				dist := r.Centroid.Distance(tb.Position)
				if dist <= d.config.MaxLabelDistance && dist < best {
					best = dist
					target = i
				}
			}
		}

		if target >= 0 {
			assigned[target] = name
			order = append(order, target)
		}
	}

	if len(order) == 0 {
		return a
	}

	counts := make(map[string]int)
	for _, i := range order {
		counts[assigned[i]]++
	}

	out := a
	out.Rooms = make([]Room, len(a.Rooms))
	copy(out.Rooms, a.Rooms)

	seen := make(map[string]int)
	for _, i := range order {
		name := assigned[i]
		label := name
		if counts[name] > 1 {
			seen[name]++
			label = fmt.Sprintf("%s %d", name, seen[name])
		}
		out.Rooms[i].Label = label
		out.Rooms[i].Type = vocab.TypeOf(label)
	}
	return out
}

// LabelRooms labels an analysis with the default configuration.
func LabelRooms(a Analysis, blocks []model.TextBlock) Analysis {
	return NewDetector().Label(a, blocks)
}
