package stats

import (
	"sort"
	"time"
)

const day = 24 * time.Hour

type CommandCount struct {
	Command string
	Count   int
}

// Analytics is the admin-only usage summary.
type Analytics struct {
	TotalUsers  int
	NewToday    int
	ActiveDay   int // active within 24h
	ActiveWeek  int // active within 7 days
	ActiveMonth int // active within 30 days
	TopCommands []CommandCount
}

const topCommandCount = 5

// AdminAnalytics aggregates usage across all users. Only configured
// admin ids may call it; everyone else gets ErrUnauthorized.
func (e *Engine) AdminAnalytics(caller int64) (Analytics, error) {
	if _, ok := e.admins[caller]; !ok {
		return Analytics{}, ErrUnauthorized
	}

	now := e.now()
	activity := e.ledger.ActivitySnapshot()

	var a Analytics
	a.TotalUsers = len(activity)

	commands := make(map[string]int)
	for _, u := range activity {
		since := now.Sub(u.LastActive)
		if since < day {
			a.ActiveDay++
		}
		if since < 7*day {
			a.ActiveWeek++
		}
		if since < 30*day {
			a.ActiveMonth++
		}
		if now.Sub(u.JoinedAt) < day && sameDate(u.JoinedAt, now) {
			a.NewToday++
		}
		for cmd, n := range u.Commands {
			commands[cmd] += n
		}
	}

	a.TopCommands = make([]CommandCount, 0, len(commands))
	for cmd, n := range commands {
		a.TopCommands = append(a.TopCommands, CommandCount{Command: cmd, Count: n})
	}
	sort.Slice(a.TopCommands, func(i, j int) bool {
		if a.TopCommands[i].Count != a.TopCommands[j].Count {
			return a.TopCommands[i].Count > a.TopCommands[j].Count
		}
		return a.TopCommands[i].Command < a.TopCommands[j].Command
	})
	if len(a.TopCommands) > topCommandCount {
		a.TopCommands = a.TopCommands[:topCommandCount]
	}

	return a, nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
