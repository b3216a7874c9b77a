// internal/matching/pool/ticket.go
package pool

import (
	"fmt"
	"math"
	"time"

	"match-workers/internal/models"

	"github.com/google/uuid"
)

// Numeric ticket fields.
const (
	FieldSkillLevel     = "skill_level"
	FieldGeoLatitude    = "geo_latitude"
	FieldGeoLongitude   = "geo_longitude"
	FieldMobilityRadius = "mobility_radius"
	FieldRemoteOK       = "remote_ok"
	FieldLastActive     = "last_active"
	FieldOpenToMatches  = "open_to_matches"
)

// Set-valued ticket fields.
const (
	FieldSectors           = "sectors"
	FieldValues            = "values"
	FieldLanguages         = "languages"
	FieldOffers            = "offers"
	FieldSeeks             = "seeks"
	FieldAvailabilitySlots = "availability_slots"
	FieldMeetingFormats    = "meeting_formats"
	FieldTags              = "tags"
)

// Ticket is a flattened, searchable view of one profile.
type Ticket struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	SearchFields SearchFields `json:"searchFields"`
	Tags         []string     `json:"tags"`
	CreatedAt    time.Time    `json:"createdAt"`
}

type SearchFields struct {
	SkillLevel     int     `json:"skill_level"`
	GeoLatitude    float64 `json:"geo_latitude"`
	GeoLongitude   float64 `json:"geo_longitude"`
	MobilityRadius float64 `json:"mobility_radius"`
	RemoteOK       int     `json:"remote_ok"`
	LastActive     int     `json:"last_active"`
	OpenToMatches  int     `json:"open_to_matches"`

	Sectors           []string `json:"sectors"`
	Values            []string `json:"values"`
	Languages         []string `json:"languages"`
	Offers            []string `json:"offers"`
	Seeks             []string `json:"seeks"`
	AvailabilitySlots []string `json:"availability_slots"`
	MeetingFormats    []string `json:"meeting_formats"`
}

// NewTicket flattens p as of now. LastActive is whole days since the profile was last seen.
func NewTicket(p *models.Profile, now time.Time) *Ticket {
	sectors := stringsOf(p.Sectors)
	values := stringsOf(p.Values)

	tags := make([]string, 0, len(sectors)+len(values)+3)
	for _, s := range sectors {
		tags = append(tags, "sector:"+s)
	}
	for _, v := range values {
		tags = append(tags, "value:"+v)
	}
	tags = append(tags,
		"seniority:"+string(p.Skills.Seniority),
		fmt.Sprintf("remote:%t", p.Location.Remote),
		fmt.Sprintf("open_to_matches:%t", p.State.OpenToMatching),
	)

	return &Ticket{
		ID:     uuid.NewString(),
		UserID: p.UserID,
		SearchFields: SearchFields{
			SkillLevel:        p.Skills.Seniority.Rank(),
			GeoLatitude:       p.Location.Lat,
			GeoLongitude:      p.Location.Lng,
			MobilityRadius:    p.Location.RadiusKm,
			RemoteOK:          boolToInt(p.Location.Remote),
			LastActive:        int(math.Floor(p.DaysSinceSeen(now))),
			OpenToMatches:     boolToInt(p.State.OpenToMatching),
			Sectors:           sectors,
			Values:            values,
			Languages:         append([]string(nil), p.Identity.Languages...),
			Offers:            append([]string(nil), p.Offers...),
			Seeks:             append([]string(nil), p.Seeks...),
			AvailabilitySlots: stringsOf(p.Availability.TimeSlots),
			MeetingFormats:    stringsOf(p.Availability.Formats),
		},
		Tags:      tags,
		CreatedAt: now,
	}
}

// Expired reports whether the ticket is older than ttl at now.
func (t *Ticket) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(t.CreatedAt) > ttl
}

// Numeric returns the value of a numeric field.
func (t *Ticket) Numeric(field string) (float64, bool) {
	f := t.SearchFields
	switch field {
	case FieldSkillLevel:
		return float64(f.SkillLevel), true
	case FieldGeoLatitude:
		return f.GeoLatitude, true
	case FieldGeoLongitude:
		return f.GeoLongitude, true
	case FieldMobilityRadius:
		return f.MobilityRadius, true
	case FieldRemoteOK:
		return float64(f.RemoteOK), true
	case FieldLastActive:
		return float64(f.LastActive), true
	case FieldOpenToMatches:
		return float64(f.OpenToMatches), true
	}
	return 0, false
}

// Set returns the value of a set-valued field, tags included.
func (t *Ticket) Set(field string) ([]string, bool) {
	f := t.SearchFields
	switch field {
	case FieldSectors:
		return f.Sectors, true
	case FieldValues:
		return f.Values, true
	case FieldLanguages:
		return f.Languages, true
	case FieldOffers:
		return f.Offers, true
	case FieldSeeks:
		return f.Seeks, true
	case FieldAvailabilitySlots:
		return f.AvailabilitySlots, true
	case FieldMeetingFormats:
		return f.MeetingFormats, true
	case FieldTags:
		return t.Tags, true
	}
	return nil, false
}

func knownField(field string) bool {
	var t Ticket
	if _, ok := t.Numeric(field); ok {
		return true
	}
	_, ok := t.Set(field)
	return ok
}

func stringsOf[T ~string](items []T) []string {
	out := make([]string, 0, len(items))
	for _, v := range items {
		out = append(out, string(v))
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
