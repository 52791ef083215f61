package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/chris/growthcoach/internal/agent"
	"github.com/chris/growthcoach/internal/db"
	"github.com/chris/growthcoach/internal/discord"
	"github.com/chris/growthcoach/internal/llm"
	"github.com/robfig/cron/v3"
)

// SessionSource labels sessions opened by the scheduler.
const SessionSource = "scheduler"

// DMSender delivers a message to a user and seeds the conversation history.
type DMSender func(userID, content string, history []llm.Message) error

// Scheduler opens a coaching session on a cron schedule and delivers the
// coach's opening message by DM, falling back to the webhook.
type Scheduler struct {
	cron     *cron.Cron
	cronExpr string
	db       *db.DB
	agent    *agent.Agent
	dmSend   DMSender
	webhook  func(content string) error
}

func New(database *db.DB, ag *agent.Agent, cronExpr string, dmSend DMSender, webhook func(string) error) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		cronExpr: cronExpr,
		db:       database,
		agent:    ag,
		dmSend:   dmSend,
		webhook:  webhook,
	}
}

func (s *Scheduler) Start() error {
	if _, err := cron.ParseStandard(s.cronExpr); err != nil {
		return fmt.Errorf("invalid session cron %q: %w", s.cronExpr, err)
	}
	if _, err := s.cron.AddFunc(s.cronExpr, func() {
		if _, err := s.RunSession(context.Background()); err != nil {
			log.Printf("scheduler: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("scheduling session: %w", err)
	}
	s.cron.Start()
	log.Printf("scheduler started with cron %q", s.cronExpr)
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunSession asks the coach to open a session, records it, and delivers
// the opening message. It returns the opening message.
func (s *Scheduler) RunSession(ctx context.Context) (string, error) {
	prompt := agent.BuildSessionPrompt(s.db, s.agent.Now())

	reply, history, err := s.agent.Run(ctx, nil, prompt)
	if err != nil {
		return "", fmt.Errorf("session agent error: %w", err)
	}

	if _, err := s.db.RecordSession(SessionSource, reply); err != nil {
		log.Printf("scheduler: recording session: %v", err)
	}

	s.deliver(reply, history)
	log.Printf("scheduler: session opened")
	return reply, nil
}

func (s *Scheduler) deliver(content string, history []llm.Message) {
	if s.dmSend != nil {
		userID, err := s.db.GetNote(discord.UserNote)
		if err == nil && userID != "" {
			if err := s.dmSend(userID, content, history); err != nil {
				log.Printf("scheduler: DM send failed: %v", err)
			} else {
				return
			}
		}
	}
	if s.webhook != nil {
		if err := s.webhook(content); err != nil {
			log.Printf("scheduler: webhook failed: %v", err)
		}
		return
	}
	log.Printf("scheduler: no delivery method available (no DM user and no webhook)")
}
