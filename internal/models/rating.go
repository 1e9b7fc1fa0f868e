package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
)

// Rating is the human verdict on an interaction
type Rating string

const (
	RatingUnset   Rating = ""
	RatingOkay    Rating = "okay"
	RatingNotOkay Rating = "not_okay"
)

var ErrInvalidRating = errors.New("invalid rating")

// ParseRating accepts the stored values plus a few spellings typed on the command line
func ParseRating(s string) (Rating, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "unset":
		return RatingUnset, nil
	case "okay", "ok":
		return RatingOkay, nil
	case "not_okay", "not-okay", "notokay":
		return RatingNotOkay, nil
	default:
		return RatingUnset, fmt.Errorf("%w: %q (want okay, not_okay or none)", ErrInvalidRating, s)
	}
}

// Valid reports whether r is one of the enumerated values
func (r Rating) Valid() bool {
	return r == RatingUnset || r == RatingOkay || r == RatingNotOkay
}

// Next cycles unset -> okay -> not_okay -> unset
func (r Rating) Next() Rating {
	switch r {
	case RatingUnset:
		return RatingOkay
	case RatingOkay:
		return RatingNotOkay
	default:
		return RatingUnset
	}
}

func (r Rating) String() string {
	if r == RatingUnset {
		return "-"
	}
	return string(r)
}

// Value stores an unset rating as NULL
func (r Rating) Value() (driver.Value, error) {
	if r == RatingUnset {
		return nil, nil
	}
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRating, string(r))
	}
	return string(r), nil
}

func (r *Rating) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = RatingUnset
	case string:
		*r = Rating(v)
	case []byte:
		*r = Rating(v)
	default:
		return fmt.Errorf("cannot scan %T into Rating", src)
	}
	return nil
}
