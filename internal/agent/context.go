package agent

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chris/growthcoach/internal/db"
	"github.com/chris/growthcoach/internal/llm"
	"github.com/dustin/go-humanize"
)

// sqliteTime is the layout of datetime('now') values.
const sqliteTime = "2006-01-02 15:04:05"

// BuildSessionPrompt creates the opening prompt for a scheduled session.
func BuildSessionPrompt(database *db.DB, now time.Time) string {
	var b strings.Builder
	b.WriteString(llm.SessionKickoff)

	last, err := database.LastSession()
	if err != nil {
		log.Printf("warning: getting last session: %v", err)
	}
	if last == nil {
		b.WriteString("\n\nThis is the first scheduled session.")
		return b.String()
	}
	if at, err := time.ParseInLocation(sqliteTime, last.CreatedAt, time.UTC); err == nil {
		fmt.Fprintf(&b, "\n\nThe previous session started %s.", humanize.RelTime(at, now, "ago", "from now"))
	}
	return b.String()
}
