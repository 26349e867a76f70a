package chunk

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/OCharnyshevich/worldgen/pkg/world/block"
)

// ExtraField requests a per-block storage field of Bits width (4, 8 or 16)
// for the blocks accepted by AppliesTo.
type ExtraField struct {
	Name      string
	Bits      int
	AppliesTo func(block.Block) bool
}

// ExtraDataManager assigns extra data fields to storage slots. Fields of the
// same width whose block sets are disjoint share a slot.
type ExtraDataManager struct {
	slots    map[string]int
	slotBits []int
}

// NewExtraDataManager evaluates each field against the registered blocks and
// lays out the slots.
func NewExtraDataManager(reg *block.Registry, fields []ExtraField, log *slog.Logger) (*ExtraDataManager, error) {
	m := &ExtraDataManager{slots: map[string]int{}}
	bySize := map[int][]ExtraField{}
	for _, f := range fields {
		switch f.Bits {
		case 4, 8, 16:
		default:
			return nil, fmt.Errorf("extra data %s: invalid bit size %d", f.Name, f.Bits)
		}
		if _, dup := m.slots[f.Name]; dup {
			return nil, fmt.Errorf("extra data %s: registered twice", f.Name)
		}
		m.slots[f.Name] = -1
		bySize[f.Bits] = append(bySize[f.Bits], f)
	}

	blocks := reg.All()
	for _, bits := range []int{4, 8, 16} {
		fs := bySize[bits]
		sort.Slice(fs, func(i, j int) bool { return fs[i].Name < fs[j].Name })

		type slot struct {
			index  int
			blocks map[block.ID]bool
		}
		var open []*slot
		for _, f := range fs {
			set := map[block.ID]bool{}
			for _, b := range blocks {
				if f.AppliesTo != nil && f.AppliesTo(b) {
					set[b.ID] = true
				}
			}
			var target *slot
			for _, s := range open {
				if disjoint(s.blocks, set) {
					target = s
					break
				}
			}
			if target == nil {
				target = &slot{index: len(m.slotBits), blocks: map[block.ID]bool{}}
				m.slotBits = append(m.slotBits, bits)
				open = append(open, target)
			}
			for id := range set {
				target.blocks[id] = true
			}
			m.slots[f.Name] = target.index
		}
	}

	if log != nil && len(m.slots) > 0 {
		names := make([]string, 0, len(m.slots))
		for name, idx := range m.slots {
			names = append(names, fmt.Sprintf("%s -> %d", name, idx))
		}
		sort.Strings(names)
		log.Info("extra data slots registered", "slots", strings.Join(names, ", "))
	}
	return m, nil
}

func disjoint(a, b map[block.ID]bool) bool {
	for id := range b {
		if a[id] {
			return false
		}
	}
	return true
}

// Slot returns the slot index of a named field.
func (m *ExtraDataManager) Slot(name string) (int, error) {
	idx, ok := m.slots[name]
	if !ok {
		return 0, fmt.Errorf("extra data %s: not registered", name)
	}
	return idx, nil
}

// SlotBits returns the bit width of each slot.
func (m *ExtraDataManager) SlotBits() []int {
	out := make([]int, len(m.slotBits))
	copy(out, m.slotBits)
	return out
}

func (m *ExtraDataManager) makeArrays() []packed {
	out := make([]packed, len(m.slotBits))
	for i, bits := range m.slotBits {
		out[i] = newPacked(bits)
	}
	return out
}
