// internal/models/profile.go
package models

import "time"

type Sector string

const (
	SectorHealthTech   Sector = "HealthTech"
	SectorRealEstate   Sector = "RealEstate"
	SectorSaaS         Sector = "SaaS"
	SectorPublicSector Sector = "PublicSector"
	SectorFinTech      Sector = "FinTech"
	SectorEdTech       Sector = "EdTech"
	SectorCleanTech    Sector = "CleanTech"
	SectorRetailTech   Sector = "RetailTech"
	SectorFoodTech     Sector = "FoodTech"
	SectorLegalTech    Sector = "LegalTech"
)

var AllSectors = []Sector{
	SectorHealthTech, SectorRealEstate, SectorSaaS, SectorPublicSector, SectorFinTech,
	SectorEdTech, SectorCleanTech, SectorRetailTech, SectorFoodTech, SectorLegalTech,
}

// NicheSectors earn the higher sector score when shared.
var NicheSectors = []Sector{SectorHealthTech, SectorCleanTech, SectorLegalTech}

func (s Sector) Valid() bool { return contains(AllSectors, s) }

type Value string

const (
	ValueSocialImpact       Value = "SocialImpact"
	ValueTransparency       Value = "Transparency"
	ValueContinuousLearning Value = "ContinuousLearning"
	ValueReliability        Value = "Reliability"
	ValueInnovation         Value = "Innovation"
	ValueCollaboration      Value = "Collaboration"
	ValueAutonomy           Value = "Autonomy"
	ValueExcellence         Value = "Excellence"
	ValueDiversity          Value = "Diversity"
)

var AllValues = []Value{
	ValueSocialImpact, ValueTransparency, ValueContinuousLearning, ValueReliability, ValueInnovation,
	ValueCollaboration, ValueAutonomy, ValueExcellence, ValueDiversity,
}

func (v Value) Valid() bool { return contains(AllValues, v) }

type Format string

const (
	FormatCoffee       Format = "coffee"
	FormatVideoCall    Format = "video_call"
	FormatCowork       Format = "cowork"
	FormatMentoring    Format = "mentoring"
	FormatShortProject Format = "short_project"
	FormatCofounding   Format = "cofounding"
)

var AllFormats = []Format{
	FormatCoffee, FormatVideoCall, FormatCowork, FormatMentoring, FormatShortProject, FormatCofounding,
}

func (f Format) Valid() bool { return contains(AllFormats, f) }

type TimeSlot string

const (
	SlotMonMorning   TimeSlot = "mon_morning"
	SlotMonAfternoon TimeSlot = "mon_afternoon"
	SlotMonEvening   TimeSlot = "mon_evening"
	SlotTueMorning   TimeSlot = "tue_morning"
	SlotTueAfternoon TimeSlot = "tue_afternoon"
	SlotTueEvening   TimeSlot = "tue_evening"
	SlotWedMorning   TimeSlot = "wed_morning"
	SlotWedAfternoon TimeSlot = "wed_afternoon"
	SlotWedEvening   TimeSlot = "wed_evening"
	SlotThuMorning   TimeSlot = "thu_morning"
	SlotThuAfternoon TimeSlot = "thu_afternoon"
	SlotThuEvening   TimeSlot = "thu_evening"
	SlotFriMorning   TimeSlot = "fri_morning"
	SlotFriAfternoon TimeSlot = "fri_afternoon"
	SlotFriEvening   TimeSlot = "fri_evening"
	SlotWeekend      TimeSlot = "weekend"
)

var AllTimeSlots = []TimeSlot{
	SlotMonMorning, SlotMonAfternoon, SlotMonEvening,
	SlotTueMorning, SlotTueAfternoon, SlotTueEvening,
	SlotWedMorning, SlotWedAfternoon, SlotWedEvening,
	SlotThuMorning, SlotThuAfternoon, SlotThuEvening,
	SlotFriMorning, SlotFriAfternoon, SlotFriEvening,
	SlotWeekend,
}

func (t TimeSlot) Valid() bool { return contains(AllTimeSlots, t) }

type Seniority string

const (
	SeniorityJunior       Seniority = "junior"
	SeniorityIntermediate Seniority = "intermediate"
	SenioritySenior       Seniority = "senior"
)

var AllSeniorities = []Seniority{SeniorityJunior, SeniorityIntermediate, SenioritySenior}

func (s Seniority) Valid() bool { return contains(AllSeniorities, s) }

// Rank maps seniority onto the 1-3 scale used by pool tickets. Unknown values rank as junior.
func (s Seniority) Rank() int {
	switch s {
	case SeniorityIntermediate:
		return 2
	case SenioritySenior:
		return 3
	default:
		return 1
	}
}

type PersonalitySource string

const (
	PersonalitySelfAssessment PersonalitySource = "self_assessment"
	PersonalityExternalTest   PersonalitySource = "external_test"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityFriends Visibility = "friends"
	VisibilityPublic  Visibility = "public"
)

type Priority string

const (
	PrioritySector          Priority = "sector"
	PriorityLocation        Priority = "location"
	PriorityValues          Priority = "values"
	PrioritySkillComplement Priority = "skill_complementarity"
)

// Profile is the read-only input record for every matching operation.
type Profile struct {
	UserID       string       `json:"userId"`
	Identity     Identity     `json:"identity"`
	Location     Location     `json:"location"`
	Availability Availability `json:"availability"`
	Sectors      []Sector     `json:"sectors"`
	Skills       Skills       `json:"skills"`
	Badges       Badges       `json:"badges"`
	Values       []Value      `json:"values"`
	Personality  Personality  `json:"personality"`
	Mission      string       `json:"mission,omitempty"`
	Projects     []string     `json:"projects,omitempty"`
	Offers       []string     `json:"offers"`
	Seeks        []string     `json:"seeks"`
	Preferences  Preferences  `json:"preferences"`
	Activity     Activity     `json:"activity"`
	State        State        `json:"state"`
	Version      int64        `json:"version"`
}

type Identity struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Headline  string   `json:"headline"`
	PhotoURL  string   `json:"photoUrl,omitempty"`
	Languages []string `json:"languages"`
}

type Location struct {
	City     string  `json:"city,omitempty"`
	Country  string  `json:"country,omitempty"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RadiusKm float64 `json:"radiusKm"`
	Remote   bool    `json:"remote"`
}

type Availability struct {
	TimeSlots []TimeSlot `json:"timeSlots"`
	Formats   []Format   `json:"formats"`
}

type Skills struct {
	Hard      []string  `json:"hard"`
	Soft      []string  `json:"soft"`
	Seniority Seniority `json:"seniority"`
}

type Badges struct {
	Community   []string `json:"community"`
	Sector      []string `json:"sector"`
	Personality []string `json:"personality"`
}

// Personality holds the five traits on a 0-100 scale.
type Personality struct {
	Openness           float64           `json:"openness"`
	Conscientiousness  float64           `json:"conscientiousness"`
	Extraversion       float64           `json:"extraversion"`
	Agreeableness      float64           `json:"agreeableness"`
	EmotionalStability float64           `json:"emotionalStability"`
	Source             PersonalitySource `json:"source"`
	MeasuredAt         time.Time         `json:"measuredAt"`
}

// Vector returns the traits normalized to [0,1].
func (p Personality) Vector() [5]float64 {
	return [5]float64{
		p.Openness / 100,
		p.Conscientiousness / 100,
		p.Extraversion / 100,
		p.Agreeableness / 100,
		p.EmotionalStability / 100,
	}
}

type Preferences struct {
	Priorities    []Priority `json:"priorities,omitempty"`
	CustomWeights *Weights   `json:"customWeights,omitempty"`
	RadiusKm      float64    `json:"radiusKm"`
	Visibility    Visibility `json:"visibility"`
}

type Activity struct {
	LastSeen time.Time `json:"lastSeen"`
	Signals  Signals   `json:"signals"`
}

type Signals struct {
	Views        int `json:"views"`
	Likes        int `json:"likes"`
	Replies      int `json:"replies"`
	NoShows      int `json:"noShows"`
	MessagesSent int `json:"messagesSent"`
}

type State struct {
	OpenToMatching bool     `json:"openToMatching"`
	BlockedIDs     []string `json:"blockedIds"`
}

// Blocks reports whether this profile has blocked userID.
func (p *Profile) Blocks(userID string) bool {
	return contains(p.State.BlockedIDs, userID)
}

// DaysSinceSeen returns fractional days between the last-seen timestamp and now, never negative.
func (p *Profile) DaysSinceSeen(now time.Time) float64 {
	d := now.Sub(p.Activity.LastSeen).Hours() / 24
	if d < 0 {
		return 0
	}
	return d
}

func contains[T comparable](items []T, v T) bool {
	for _, it := range items {
		if it == v {
			return true
		}
	}
	return false
}
