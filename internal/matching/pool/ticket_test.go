// internal/matching/pool/ticket_test.go
package pool

import (
	"testing"
	"time"

	"match-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNewTicket_FlattensProfile(t *testing.T) {
	p := newProfile("alice")
	p.Location.Remote = true

	tk := NewTicket(p, testNow)

	assert.NotEmpty(t, tk.ID)
	assert.Equal(t, "alice", tk.UserID)
	assert.Equal(t, testNow, tk.CreatedAt)

	f := tk.SearchFields
	assert.Equal(t, 3, f.SkillLevel)
	assert.Equal(t, 1, f.RemoteOK)
	assert.Equal(t, 1, f.OpenToMatches)
	assert.Equal(t, 1, f.LastActive, "36 hours floors to one day")
	assert.Equal(t, 30.0, f.MobilityRadius)
	assert.Equal(t, []string{"SaaS"}, f.Sectors)
	assert.Equal(t, []string{"mon_morning"}, f.AvailabilitySlots)
	assert.Equal(t, []string{"coffee"}, f.MeetingFormats)

	assert.Equal(t, []string{
		"sector:SaaS",
		"value:Transparency",
		"value:Innovation",
		"seniority:senior",
		"remote:true",
		"open_to_matches:true",
	}, tk.Tags)
}

func TestNewTicket_SeniorityRank(t *testing.T) {
	p := newProfile("a")
	for s, want := range map[models.Seniority]int{
		models.SeniorityJunior:       1,
		models.SeniorityIntermediate: 2,
		models.SenioritySenior:       3,
		"":                           1,
	} {
		p.Skills.Seniority = s
		assert.Equal(t, want, NewTicket(p, testNow).SearchFields.SkillLevel)
	}
}

func TestTicket_Expired(t *testing.T) {
	tk := NewTicket(newProfile("a"), testNow)
	assert.False(t, tk.Expired(testNow.Add(24*time.Hour), 24*time.Hour))
	assert.True(t, tk.Expired(testNow.Add(24*time.Hour+time.Second), 24*time.Hour))
}

func TestTicket_FieldAccess(t *testing.T) {
	tk := NewTicket(newProfile("a"), testNow)

	v, ok := tk.Numeric(FieldGeoLatitude)
	assert.True(t, ok)
	assert.Equal(t, 48.8566, v)

	_, ok = tk.Numeric(FieldSectors)
	assert.False(t, ok)

	tags, ok := tk.Set(FieldTags)
	assert.True(t, ok)
	assert.Contains(t, tags, "sector:SaaS")

	_, ok = tk.Set("unknown")
	assert.False(t, ok)
}
