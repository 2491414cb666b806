package footballdata

import "time"

type teamPayload struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	TLA       string `json:"tla"`
	Crest     string `json:"crest"`
}

type standingsEnvelope struct {
	Standings []struct {
		Type  string `json:"type"`
		Table []struct {
			Position     int         `json:"position"`
			Team         teamPayload `json:"team"`
			PlayedGames  int         `json:"playedGames"`
			Won          int         `json:"won"`
			Draw         int         `json:"draw"`
			Lost         int         `json:"lost"`
			GoalsFor     int         `json:"goalsFor"`
			GoalsAgainst int         `json:"goalsAgainst"`
		} `json:"table"`
	} `json:"standings"`
}

type squadEnvelope struct {
	Squad []struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Position    string `json:"position"`
		Nationality string `json:"nationality"`
		ShirtNumber int    `json:"shirtNumber"`
	} `json:"squad"`
}

type matchPayload struct {
	ID       int64  `json:"id"`
	Matchday int    `json:"matchday"`
	Status   string `json:"status"`
	UTCDate  string `json:"utcDate"`
	HomeTeam struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"homeTeam"`
	AwayTeam struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"awayTeam"`
	Score struct {
		FullTime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"fullTime"`
	} `json:"score"`
}

type matchesEnvelope struct {
	Matches []matchPayload `json:"matches"`
}

type lineupPlayerPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type matchDetailEnvelope struct {
	ID       int64  `json:"id"`
	Matchday int    `json:"matchday"`
	Status   string `json:"status"`
	UTCDate  string `json:"utcDate"`

	HomeTeam matchDetailSide `json:"homeTeam"`
	AwayTeam matchDetailSide `json:"awayTeam"`

	Score struct {
		FullTime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"fullTime"`
	} `json:"score"`

	Goals []struct {
		Minute int    `json:"minute"`
		Type   string `json:"type"`
		Team   struct {
			ID int64 `json:"id"`
		} `json:"team"`
		Scorer lineupPlayerPayload  `json:"scorer"`
		Assist *lineupPlayerPayload `json:"assist"`
	} `json:"goals"`

	Bookings []struct {
		Minute int    `json:"minute"`
		Card   string `json:"card"`
		Team   struct {
			ID int64 `json:"id"`
		} `json:"team"`
		Player lineupPlayerPayload `json:"player"`
	} `json:"bookings"`
}

type matchDetailSide struct {
	ID     int64                 `json:"id"`
	Name   string                `json:"name"`
	Lineup []lineupPlayerPayload `json:"lineup"`
	Bench  []lineupPlayerPayload `json:"bench"`
}

func parseFeedTime(raw string) time.Time {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
