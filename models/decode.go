package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Documents in the store come from several generations of the booking
// forms: guest names under "pname", room type under "roomId", dates under
// "checkIn"/"checkOut", counts as strings. The decoders below read field by
// field and never fail; whatever cannot be read falls back to a zero value
// (dates fall back to Epoch).

// DecodeReservation reads a reservation document of any generation.
func DecodeReservation(raw bson.Raw) Reservation {
	r := Reservation{
		ID:           lookupID(raw),
		GuestName:    lookupString(raw, "guestName", "pname", "name"),
		Email:        lookupString(raw, "email"),
		Phone:        lookupString(raw, "phone"),
		RoomTypeID:   lookupString(raw, "roomTypeId", "roomId"),
		RoomTypeName: lookupString(raw, "roomTypeName", "roomName"),
		RoomNumber:   lookupInt(raw, "roomNumber"),
		CheckInDate:  lookupTime(raw, "checkInDate", "checkIn"),
		CheckOutDate: lookupTime(raw, "checkOutDate", "checkOut"),
		AdultsCount:  lookupInt(raw, "adultsCount", "adults"),
		KidsCount:    lookupInt(raw, "kidsCount", "kids"),
		Status:       lookupString(raw, "status"),
		CheckedInAt:  lookupOptionalTime(raw, "checkedInAt"),
		CheckedOutAt: lookupOptionalTime(raw, "checkedOutAt"),
		CreatedAt:    lookupTime(raw, "createdAt"),
	}
	if updated := lookupOptionalTime(raw, "updatedAt"); updated != nil {
		r.UpdatedAt = *updated
	}
	if r.RoomNumber < 0 {
		r.RoomNumber = 0
	}
	if r.AdultsCount < 0 {
		r.AdultsCount = 0
	}
	if r.KidsCount < 0 {
		r.KidsCount = 0
	}
	return r
}

// DecodeRoomType reads a room document, including the early ones that used
// "maxPerson" and carried no slot numbers.
func DecodeRoomType(raw bson.Raw) RoomType {
	rt := RoomType{
		ID:           lookupID(raw),
		Name:         lookupString(raw, "name"),
		Price:        lookupFloat(raw, "price"),
		MaxOccupancy: lookupInt(raw, "maxOccupancy", "maxPerson"),
		Description:  lookupString(raw, "description"),
		ImagePath:    lookupString(raw, "imagePath"),
		ThumbPath:    lookupString(raw, "thumbPath"),
	}
	if v := raw.Lookup("slots"); v.Type == bson.TypeArray {
		if arr, ok := v.ArrayOK(); ok {
			values, _ := arr.Values()
			for _, el := range values {
				if n, ok := intValue(el); ok && n > 0 {
					rt.Slots = append(rt.Slots, n)
				}
			}
		}
	}
	return WithSlotLayout(rt)
}

// ParseDate accepts the date formats the booking forms send. Anything
// unreadable yields Epoch and false.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Epoch, false
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), true
	}
	return Epoch, false
}

func lookupID(raw bson.Raw) string {
	if id := lookupString(raw, "id"); id != "" {
		return id
	}
	v := raw.Lookup("_id")
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if s, ok := v.StringValueOK(); ok {
		return s
	}
	return ""
}

func lookupString(raw bson.Raw, keys ...string) string {
	for _, k := range keys {
		v := raw.Lookup(k)
		switch v.Type {
		case bson.TypeString:
			if s := strings.TrimSpace(v.StringValue()); s != "" {
				return s
			}
		case bson.TypeInt32, bson.TypeInt64, bson.TypeDouble:
			if n, ok := intValue(v); ok {
				return strconv.Itoa(n)
			}
		}
	}
	return ""
}

func lookupInt(raw bson.Raw, keys ...string) int {
	for _, k := range keys {
		if n, ok := intValue(raw.Lookup(k)); ok {
			return n
		}
	}
	return 0
}

func lookupFloat(raw bson.Raw, keys ...string) float64 {
	for _, k := range keys {
		v := raw.Lookup(k)
		switch v.Type {
		case bson.TypeDouble:
			if f := v.Double(); !math.IsNaN(f) && !math.IsInf(f, 0) {
				return f
			}
		case bson.TypeInt32:
			return float64(v.Int32())
		case bson.TypeInt64:
			return float64(v.Int64())
		case bson.TypeString:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v.StringValue()), 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func intValue(v bson.RawValue) (int, bool) {
	switch v.Type {
	case bson.TypeInt32:
		return int(v.Int32()), true
	case bson.TypeInt64:
		return int(v.Int64()), true
	case bson.TypeDouble:
		f := v.Double()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int(f), true
	case bson.TypeString:
		n, err := strconv.Atoi(strings.TrimSpace(v.StringValue()))
		return n, err == nil
	}
	return 0, false
}

// lookupTime returns Epoch when no key holds a readable date.
func lookupTime(raw bson.Raw, keys ...string) time.Time {
	for _, k := range keys {
		v := raw.Lookup(k)
		if v.Type == 0 || v.Type == bson.TypeNull || v.Type == bson.TypeUndefined {
			continue
		}
		if t, ok := timeValue(v); ok {
			return t
		}
	}
	return Epoch
}

// lookupOptionalTime is nil when the field is absent or null. A present
// but unreadable value still counts as present and reads as Epoch.
func lookupOptionalTime(raw bson.Raw, key string) *time.Time {
	v := raw.Lookup(key)
	if v.Type == 0 || v.Type == bson.TypeNull || v.Type == bson.TypeUndefined {
		return nil
	}
	if v.Type == bson.TypeBoolean && !v.Boolean() {
		return nil
	}
	t, ok := timeValue(v)
	if !ok {
		t = Epoch
	}
	return &t
}

func timeValue(v bson.RawValue) (time.Time, bool) {
	switch v.Type {
	case bson.TypeDateTime:
		return time.UnixMilli(v.DateTime()), true
	case bson.TypeTimestamp:
		sec, _ := v.Timestamp()
		return time.Unix(int64(sec), 0), true
	case bson.TypeString:
		return ParseDate(v.StringValue(), time.Local)
	case bson.TypeInt32, bson.TypeInt64, bson.TypeDouble:
		if n, ok := intValue(v); ok {
			return time.UnixMilli(int64(n)), true
		}
	case bson.TypeEmbeddedDocument:
		// exported Firestore timestamps: {seconds, nanoseconds}
		doc := v.Document()
		for _, k := range []string{"seconds", "_seconds"} {
			if sec, ok := intValue(doc.Lookup(k)); ok {
				nanos, _ := intValue(doc.Lookup("nanoseconds"))
				return time.Unix(int64(sec), int64(nanos)), true
			}
		}
	}
	return Epoch, false
}
