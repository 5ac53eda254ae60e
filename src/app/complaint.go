package app

import "fmt"

const (
	defaultUserName      = "Concerned Citizen"
	defaultAuthorityName = "Municipal Commissioner"
)

// ComplaintFields are the free-text inputs of the letter template. Empty
// name fields fall back to the documented defaults; everything else
// renders as-is.
type ComplaintFields struct {
	PotholeCount  int
	RoadName      string
	Area          string
	City          string
	UserName      string
	AuthorityName string
	ExtraDetails  string
}

// RenderComplaint builds a short, polite complaint letter. It has no
// failure modes.
func RenderComplaint(f ComplaintFields) string {
	if f.UserName == "" {
		f.UserName = defaultUserName
	}
	if f.AuthorityName == "" {
		f.AuthorityName = defaultAuthorityName
	}

	return fmt.Sprintf(`
Subject: Request for urgent pothole repair at %s, %s, %s

Respected %s,

I would like to bring to your attention that a total of %d potholes
have been detected on the road at %s, %s, %s. These potholes
pose a serious risk to commuters, especially at night.

%s

I request you to kindly take immediate action and repair the road at the earliest.

Thank you,
%s
`,
		f.RoadName, f.Area, f.City,
		f.AuthorityName,
		f.PotholeCount,
		f.RoadName, f.Area, f.City,
		f.ExtraDetails,
		f.UserName,
	)
}
