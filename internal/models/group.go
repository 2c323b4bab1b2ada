package models

import "time"

// Group is a recurring weekly class slot: two weekdays sharing one time window.
type Group struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Day1      string    `db:"day1" json:"day1"`
	Day2      string    `db:"day2" json:"day2"`
	StartTime string    `db:"start_time" json:"startTime"`
	EndTime   string    `db:"end_time" json:"endTime"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// GroupPatch lists the fields a partial update sets. A nil pointer leaves the
// stored value alone.
type GroupPatch struct {
	Name      *string
	Day1      *string
	Day2      *string
	StartTime *string
	EndTime   *string
}

// IsEmpty reports whether the patch changes nothing.
func (p GroupPatch) IsEmpty() bool {
	return p.Name == nil && p.Day1 == nil && p.Day2 == nil && p.StartTime == nil && p.EndTime == nil
}

// Apply copies the present fields onto g.
func (p GroupPatch) Apply(g *Group) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Day1 != nil {
		g.Day1 = *p.Day1
	}
	if p.Day2 != nil {
		g.Day2 = *p.Day2
	}
	if p.StartTime != nil {
		g.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		g.EndTime = *p.EndTime
	}
}
