package rooms

import (
	"strconv"
	"strings"
	"unicode"
)

// RoomType is the functional category of a labeled room.
type RoomType string

const (
	LivingRoom     RoomType = "living_room"
	Kitchen        RoomType = "kitchen"
	WC             RoomType = "wc"
	Utility        RoomType = "utility"
	Dining         RoomType = "dining"
	Laundry        RoomType = "laundry"
	Closet         RoomType = "closet"
	Porch          RoomType = "porch"
	Bedroom        RoomType = "bedroom"
	Bathroom       RoomType = "bathroom"
	Restroom       RoomType = "restroom"
	Hallway        RoomType = "hallway"
	Corridor       RoomType = "corridor"
	Garage         RoomType = "garage"
	Entry          RoomType = "entry"
	Foyer          RoomType = "foyer"
	Lobby          RoomType = "lobby"
	OpenOffice     RoomType = "open_office"
	PrivateOffice  RoomType = "private_office"
	Conference     RoomType = "conference"
	Storage        RoomType = "storage"
	MechanicalRoom RoomType = "mechanical_room"
	Other          RoomType = "other"
)

// AllTypes returns every room type, Other last.
func AllTypes() []RoomType {
	return []RoomType{
		LivingRoom, Kitchen, WC, Utility, Dining, Laundry, Closet, Porch,
		Bedroom, Bathroom, Restroom, Hallway, Corridor, Garage, Entry, Foyer,
		Lobby, OpenOffice, PrivateOffice, Conference, Storage, MechanicalRoom,
		Other,
	}
}

// IsWet reports whether the room needs plumbing.
func (t RoomType) IsWet() bool {
	switch t {
	case Kitchen, Bathroom, WC, Restroom, Utility, Laundry:
		return true
	}
	return false
}

// Vocabulary maps upper-case room names as they appear on drawings to
// room types.
type Vocabulary map[string]RoomType

// DefaultVocabulary returns a fresh copy of the built-in room names.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		"LIVING ROOM":    LivingRoom,
		"KITCHEN":        Kitchen,
		"WC":             WC,
		"UTILITY":        Utility,
		"DINING":         Dining,
		"DINING ROOM":    Dining,
		"LAUNDRY":        Laundry,
		"COATS":          Closet,
		"FRONT PORCH":    Porch,
		"BACK PORCH":     Porch,
		"BEDROOM":        Bedroom,
		"BATHROOM":       Bathroom,
		"RESTROOM":       Restroom,
		"CLOSET":         Closet,
		"HALLWAY":        Hallway,
		"CORRIDOR":       Corridor,
		"GARAGE":         Garage,
		"PORCH":          Porch,
		"ENTRY":          Entry,
		"FOYER":          Foyer,
		"LOBBY":          Lobby,
		"OFFICE":         OpenOffice,
		"CONFERENCE":     Conference,
		"STORAGE":        Storage,
		"MECHANICAL":     MechanicalRoom,
		"MASTER BEDROOM": Bedroom,
		"MASTER BATH":    Bathroom,
		"FAMILY ROOM":    LivingRoom,
		"DEN":            LivingRoom,
		"STUDY":          PrivateOffice,
		"PANTRY":         Storage,
		"MUDROOM":        Entry,
		"SUNROOM":        LivingRoom,
		"BREAKFAST":      Dining,
		"NOOK":           Dining,
		"LINEN":          Closet,
	}
}

// TypeOf maps a room label to its type. A trailing number added for
// duplicate names ("BEDROOM 2") is ignored. Unknown labels are Other.
func (v Vocabulary) TypeOf(label string) RoomType {
	upper := strings.ToUpper(strings.TrimSpace(label))
	if t, ok := v[upper]; ok {
		return t
	}
	if i := strings.LastIndexByte(upper, ' '); i > 0 {
		if _, err := strconv.Atoi(upper[i+1:]); err == nil {
			if t, ok := v[upper[:i]]; ok {
				return t
			}
		}
	}
	return Other
}

// Match finds the room name a text run refers to. The text is upper-cased
// and split into words at every rune that is not a letter or digit, so
// "KITCHEN/DINING", "(BEDROOM)" and "BATH-2" all yield words. An exact match
// of the whole run wins; otherwise the longest vocabulary name whose words
// appear consecutively in the run is used, the earliest one on a tie.
// Names never match inside a longer word ("DEN" is not in "GARDEN").
func (v Vocabulary) Match(text string) (string, bool) {
	words := labelWords(text)
	if len(words) == 0 {
		return "", false
	}
	norm := strings.Join(words, " ")
	if _, ok := v[norm]; ok {
		return norm, true
	}

	best, bestAt := "", -1
	for name := range v {
		at := indexWords(words, strings.Fields(name))
		if at < 0 {
			continue
		}
		switch {
		case len(name) > len(best),
			len(name) == len(best) && at < bestAt,
			len(name) == len(best) && at == bestAt && name < best:
			best, bestAt = name, at
		}
	}
	return best, best != ""
}

func labelWords(text string) []string {
	return strings.FieldsFunc(strings.ToUpper(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// indexWords returns the position of the first run of sub inside words,
// or -1.
func indexWords(words, sub []string) int {
	if len(sub) == 0 {
		return -1
	}
	for i := 0; i+len(sub) <= len(words); i++ {
		match := true
		for j, w := range sub {
			if words[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
