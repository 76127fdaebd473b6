package scheduler

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/openrms/records-api/databases"
	"github.com/openrms/records-api/dispatch"
	"github.com/openrms/records-api/models"
	templates "github.com/openrms/records-api/templates/html"
)

// Scheduler handles periodic background jobs for the dispatch board
type Scheduler struct {
	cron       *cron.Cron
	Calls      databases.CallDatabase
	Units      databases.UnitDatabase
	LockDB     databases.SchedulerLockDatabase
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	calls databases.CallDatabase,
	units databases.UnitDatabase,
	lockDB databases.SchedulerLockDatabase,
) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		Calls:      calls,
		Units:      units,
		LockDB:     lockDB,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Escalate stale high-priority calls every 5 minutes
	_, err := s.cron.AddFunc("*/5 * * * *", s.escalateStaleCalls)
	if err != nil {
		zap.S().Errorw("failed to register escalation job", "error", err)
	}

	// Reconcile unit assignments every 10 minutes. Catches units left
	// responding after a partial failure between resolve and release.
	_, err = s.cron.AddFunc("*/10 * * * *", s.auditAssignments)
	if err != nil {
		zap.S().Errorw("failed to register assignment audit job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Dispatch scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Dispatch scheduler stopped")
}

// escalationThreshold reads the pending-call age limit, defaulting to 15 minutes
func escalationThreshold() time.Duration {
	minutes, err := strconv.Atoi(os.Getenv("ESCALATION_THRESHOLD_MINUTES"))
	if err != nil || minutes <= 0 {
		minutes = 15
	}
	return time.Duration(minutes) * time.Minute
}

// escalateStaleCalls emails the duty supervisor about high-priority calls
// that have sat pending past the threshold with no units assigned
func (s *Scheduler) escalateStaleCalls() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Try to acquire distributed lock (10 minute TTL)
	acquired, err := s.LockDB.TryAcquireLock(ctx, "escalate_stale_calls_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for escalation job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Escalation job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "escalate_stale_calls_job", s.instanceID)

	threshold := escalationThreshold()
	cutoff := time.Now().Add(-threshold)

	zap.S().Infow("Running stale call escalation job", "instance", s.instanceID)

	filter := bson.M{
		"call.status":      models.CallStatusPending,
		"call.priority":    models.CallPriorityHigh,
		"call.createdAt":   bson.M{"$lt": primitive.NewDateTimeFromTime(cutoff)},
		"call.escalatedAt": nil,
	}

	staleCalls, err := s.Calls.Find(ctx, filter)
	if err != nil {
		zap.S().Errorw("failed to find stale calls", "error", err)
		return
	}

	escalated := 0
	for _, call := range staleCalls {
		if s.escalateCall(ctx, call) {
			escalated++
		}
	}

	zap.S().Infow("Stale call escalation complete",
		"staleFound", len(staleCalls),
		"escalated", escalated,
	)
}

// escalateCall marks a single call escalated and sends the supervisor email.
// The escalatedAt CAS means each call is escalated at most once even if two
// instances race past the lock.
func (s *Scheduler) escalateCall(ctx context.Context, call models.Call) bool {
	now := primitive.NewDateTimeFromTime(time.Now())
	matched, err := s.Calls.UpdateOne(ctx,
		bson.M{"_id": call.ID, "call.escalatedAt": nil},
		bson.M{"$set": bson.M{"call.escalatedAt": now}, "$inc": bson.M{"__v": 1}},
	)
	if err != nil {
		zap.S().Errorw("failed to mark call escalated", "error", err, "callId", call.ID)
		return false
	}
	if matched == 0 {
		// Another instance got it first
		return false
	}

	ageMinutes := int(time.Since(call.Details.CreatedAt.Time()).Minutes())
	go s.sendEscalationEmail(call, ageMinutes)

	zap.S().Infow("Escalated stale high-priority call",
		"callId", call.ID,
		"ageMinutes", ageMinutes,
	)
	return true
}

// auditAssignments releases units stuck responding with no open call
// claiming them
func (s *Scheduler) auditAssignments() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Try to acquire distributed lock (10 minute TTL)
	acquired, err := s.LockDB.TryAcquireLock(ctx, "assignment_audit_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for assignment audit job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Assignment audit job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "assignment_audit_job", s.instanceID)

	zap.S().Infow("Running assignment audit job", "instance", s.instanceID)

	openCalls, err := s.Calls.Find(ctx, bson.M{"call.status": models.CallStatusDispatched})
	if err != nil {
		zap.S().Errorw("failed to find dispatched calls", "error", err)
		return
	}
	claimed := make(map[string]bool)
	for _, call := range openCalls {
		for _, unitID := range call.Details.AssignedUnits {
			claimed[unitID] = true
		}
	}

	responding, err := s.Units.Find(ctx, bson.M{"unit.status": models.UnitStatusResponding})
	if err != nil {
		zap.S().Errorw("failed to find responding units", "error", err)
		return
	}

	var orphans []string
	for _, unit := range responding {
		if !claimed[unit.ID] {
			orphans = append(orphans, unit.ID)
		}
	}
	if len(orphans) == 0 {
		zap.S().Info("Assignment audit complete, no orphaned units")
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	released, err := s.Units.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": orphans}, "unit.status": models.UnitStatusResponding},
		bson.M{
			"$set": bson.M{
				"unit.status":    models.UnitStatusAvailable,
				"unit.location":  dispatch.LocationReturning,
				"unit.updatedAt": now,
			},
			"$inc": bson.M{"__v": 1},
		},
	)
	if err != nil {
		zap.S().Errorw("failed to release orphaned units", "error", err, "unitIds", orphans)
		return
	}

	zap.S().Infow("Assignment audit complete",
		"orphansFound", len(orphans),
		"released", released,
	)
}

// --- Email Helper Functions ---

func (s *Scheduler) sendEscalationEmail(call models.Call, ageMinutes int) {
	supervisorEmail := os.Getenv("SUPERVISOR_EMAIL")
	if supervisorEmail == "" {
		zap.S().Warn("SUPERVISOR_EMAIL not set, skipping escalation email")
		return
	}

	subject := "High-Priority Call Awaiting Dispatch"
	htmlContent := templates.RenderCallEscalationEmail(call.ID, call.Details.Location, call.Details.Description, ageMinutes)
	plainText := fmt.Sprintf("High-priority call %s at %s has been pending for %d minutes with no units assigned.",
		call.ID, call.Details.Location, ageMinutes)

	from := mail.NewEmail("Records Dispatch", "no-reply@openrms.dev")
	to := mail.NewEmail("Duty Supervisor", supervisorEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send escalation email", "error", err, "callId", call.ID)
		return
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
}
