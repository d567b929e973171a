package command

import "fmt"

// ReadDateTime is command 0x1C: read the meter's clock, supported by every
// generation, with no request payload.
type ReadDateTime struct{}

// ReadDateTimeResponse is the 7-byte response payload.
type ReadDateTimeResponse struct {
	Seconds    byte // 0-59
	Minutes    byte // 0-59
	Hours      byte // 0-23
	DayOfWeek  byte // 0-6, 0 = Sunday
	Day        byte // 1-31
	Month      byte // 1-12
	Year       byte // 0-99
}

func (ReadDateTimeResponse) isResponse() {}

func (ReadDateTime) Code() byte { return CodeReadDateTime }

func (ReadDateTime) EncodeRequest(gen Generation, dst []byte) (int, error) { return 0, nil }

func (ReadDateTime) DecodeResponse(gen Generation, payload []byte) (Response, error) {
	if len(payload) != 7 {
		return nil, fmt.Errorf("%w: read-date-time response is %d bytes, want 7", ErrPayloadSize, len(payload))
	}
	r := ReadDateTimeResponse{
		Seconds:   payload[0],
		Minutes:   payload[1],
		Hours:     payload[2],
		DayOfWeek: payload[3],
		Day:       payload[4],
		Month:     payload[5],
		Year:      payload[6],
	}
	if r.Seconds > 59 || r.Minutes > 59 || r.Hours > 23 || r.DayOfWeek > 6 ||
		r.Day < 1 || r.Day > 31 || r.Month < 1 || r.Month > 12 || r.Year > 99 {
		return nil, fmt.Errorf("%w: read-date-time field out of contract range: %+v", ErrFieldRange, r)
	}
	return r, nil
}

func (ReadDateTime) SupportedFor(gen Generation) bool { return true }

func (ReadDateTime) MinRequestSize(gen Generation) int { return 0 }

func (ReadDateTime) ResponseSizeRange(gen Generation) (int, int) { return 7, 7 }

func (ReadDateTime) RequiresPassword() bool { return false }

// EncodeReadDateTimeResponse serializes a ReadDateTimeResponse's fields,
// used by the server's default ReadDateTime handler.
func EncodeReadDateTimeResponse(r ReadDateTimeResponse, dst []byte) (int, error) {
	if len(dst) < 7 {
		return 0, ErrResponseBufferTooSmall
	}
	dst[0] = r.Seconds
	dst[1] = r.Minutes
	dst[2] = r.Hours
	dst[3] = r.DayOfWeek
	dst[4] = r.Day
	dst[5] = r.Month
	dst[6] = r.Year
	return 7, nil
}
