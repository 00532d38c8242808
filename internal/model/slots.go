package model

// ValidTimeSlots is the fixed, process-wide enumeration of bookable
// start times.  Every booking occupies exactly one slot for one hour.
// The list is ordered; availability responses preserve this order.
var ValidTimeSlots = []string{
	"06:00", "07:00", "08:00", "09:00", "10:00", "11:00",
	"12:00", "13:00", "14:00", "15:00", "16:00", "17:00",
	"18:00", "19:00", "20:00", "21:00",
}

// SlotDurationMin is the fixed length of a booking unit in minutes.
const SlotDurationMin = 60

// IsValidTimeSlot reports whether s belongs to the fixed slot
// enumeration.
func IsValidTimeSlot(s string) bool {
	for _, slot := range ValidTimeSlots {
		if slot == s {
			return true
		}
	}
	return false
}
