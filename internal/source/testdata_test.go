package source

import "github.com/agentic-research/nestree/api"

// fixture holds two groups. Group 1 is rooted at level 0, group 8 at level 1.
//
//	1 Catalog             8 Archive
//	  2 Tools               9 Old
//	    3 Hammers
//	    4 Saws
//	  5 Garden
//	    6 Seeds
//	      7 Tomato
func fixture() []api.Record {
	return []api.Record{
		{ID: 1, Title: "Catalog", Left: 1, Right: 14, Level: 0, Root: 1, Active: true},
		{ID: 2, Title: "Tools", Left: 2, Right: 7, Level: 1, Root: 1, Active: true},
		{ID: 3, Title: "Hammers", Left: 3, Right: 4, Level: 2, Root: 1, Active: true},
		{ID: 4, Title: "Saws", Left: 5, Right: 6, Level: 2, Root: 1, Active: false},
		{ID: 5, Title: "Garden", Left: 8, Right: 13, Level: 1, Root: 1, Active: true},
		{ID: 6, Title: "Seeds", Left: 9, Right: 12, Level: 2, Root: 1, Active: true},
		{ID: 7, Title: "Tomato", Left: 10, Right: 11, Level: 3, Root: 1, Active: true},
		{ID: 8, Title: "Archive", Left: 1, Right: 4, Level: 1, Root: 8, Active: true},
		{ID: 9, Title: "Old", Left: 2, Right: 3, Level: 2, Root: 8, Active: true},
	}
}

func recordIDs(records []api.Record) []api.ID {
	out := make([]api.ID, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
