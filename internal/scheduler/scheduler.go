// Package scheduler manages the review workflow after underwriting: officer
// registration, prioritized task assignment, and the capacity queue.
package scheduler

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"bank-automation/internal/common/errors"
	"bank-automation/internal/common/logger"
	"bank-automation/internal/common/metrics"
	"bank-automation/internal/models"

	"github.com/google/uuid"
)

// Namespace for deterministic task IDs. The same application always maps to
// the same task ID, which makes re-submission idempotent.
var taskNamespace = uuid.MustParse("7a5b1c3e-9d2f-4e8a-b6c4-0f1e2d3c4b5a")

// TaskID derives the review task ID for an application.
func TaskID(applicationID string) string {
	return uuid.NewSHA1(taskNamespace, []byte(applicationID)).String()
}

// Manager owns the officer registry, the task map, and the capacity queue.
// A single mutex guards all three so every operation observes and leaves a
// consistent whole: currentLoad equals the assigned set size and never
// exceeds capacity, and no task is both queued and assigned.
type Manager struct {
	mu       sync.Mutex
	officers map[string]*models.Officer
	tasks    map[string]*models.Task
	queue    []*models.Task

	// jitter feeds the tie-break term of officer scoring. Tests inject a
	// constant to make selection deterministic.
	jitter func() float64

	logger logger.Logger
	now    func() time.Time
}

// New creates an empty manager.
func New(log logger.Logger) *Manager {
	return &Manager{
		officers: make(map[string]*models.Officer),
		tasks:    make(map[string]*models.Task),
		jitter:   rand.Float64,
		logger:   log.WithFields(map[string]interface{}{"stage": "scheduling"}),
		now:      time.Now,
	}
}

// RegisterOfficer adds an officer to the registry with zero load.
func (m *Manager) RegisterOfficer(officer *models.Officer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.officers[officer.ID]; exists {
		return errors.NewDuplicateOfficerError(officer.ID)
	}

	registered := *officer
	registered.CurrentLoad = 0
	registered.AssignedTasks = make(map[string]struct{})
	m.officers[officer.ID] = &registered

	m.logger.Info("officer registered", map[string]interface{}{
		"officerId": officer.ID,
		"capacity":  officer.Capacity,
	})
	return nil
}

// DeregisterOfficer removes an officer. It fails while the officer still
// carries assigned tasks; those must be completed or reassigned first.
func (m *Manager) DeregisterOfficer(officerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	officer, ok := m.officers[officerID]
	if !ok {
		return errors.NewOfficerNotFoundError(officerID)
	}
	if officer.CurrentLoad > 0 {
		return errors.NewOfficerHasActiveLoadError(officerID, officer.CurrentLoad)
	}

	delete(m.officers, officerID)
	m.logger.Info("officer deregistered", map[string]interface{}{"officerId": officerID})
	return nil
}

// AssignTask creates the review task for a decided application and assigns
// it to the best available officer, or queues it when every officer is at
// capacity. Calling it again for the same application returns the existing
// task unchanged.
func (m *Manager) AssignTask(app *models.LoanApplication, decision *models.UnderwritingDecision) (*models.AssignmentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := TaskID(app.ID)
	if existing, ok := m.tasks[id]; ok {
		return m.resultForLocked(existing), nil
	}

	createdAt := m.now()
	priority := taskPriority(app.RequestedAmount, decision)
	task := &models.Task{
		ID:              id,
		ApplicationID:   app.ID,
		CustomerID:      app.CustomerID,
		LoanType:        app.LoanType,
		RequestedAmount: app.RequestedAmount,
		Decision:        decision,
		Priority:        priority,
		CreatedAt:       createdAt,
		DueDate:         dueDate(createdAt, priority),
	}
	m.tasks[id] = task

	if officer := m.selectOfficerLocked(task.LoanType); officer != nil {
		m.assignLocked(task, officer, createdAt)
		metrics.TaskAssignments.WithLabelValues("assigned").Inc()
		m.logger.Info("task assigned", map[string]interface{}{
			"taskId":    task.ID,
			"officerId": officer.ID,
			"priority":  task.Priority,
		})
		return &models.AssignmentResult{Task: task, Assigned: true, OfficerID: officer.ID}, nil
	}

	task.Status = models.TaskQueued
	m.queue = append(m.queue, task)
	metrics.TaskAssignments.WithLabelValues("queued").Inc()
	metrics.TaskQueueDepth.Set(float64(len(m.queue)))
	m.logger.Warn("no officer capacity, task queued", map[string]interface{}{
		"taskId":   task.ID,
		"priority": task.Priority,
		"position": len(m.queue),
	})
	return &models.AssignmentResult{Task: task, Queued: true, QueuePosition: len(m.queue)}, nil
}

// CompleteTask releases the task's officer capacity and drains the queue
// into whatever capacity that frees up.
func (m *Manager) CompleteTask(taskID string) (*models.CompletionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[taskID]
	if !ok || task.Status != models.TaskAssigned || task.OfficerID == nil {
		return nil, errors.NewTaskNotFoundError(taskID)
	}

	officer := m.officers[*task.OfficerID]
	delete(officer.AssignedTasks, task.ID)
	officer.CurrentLoad = len(officer.AssignedTasks)
	task.Status = models.TaskCompleted

	drained := m.drainQueueLocked()
	metrics.TaskQueueDepth.Set(float64(len(m.queue)))

	m.logger.Info("task completed", map[string]interface{}{
		"taskId":    task.ID,
		"officerId": officer.ID,
		"drained":   len(drained),
	})
	return &models.CompletionResult{Task: task, OfficerID: officer.ID, Drained: drained}, nil
}

// Officer returns a snapshot of a registered officer.
func (m *Manager) Officer(officerID string) (*models.Officer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	officer, ok := m.officers[officerID]
	if !ok {
		return nil, errors.NewOfficerNotFoundError(officerID)
	}
	snapshot := *officer
	return &snapshot, nil
}

// Task returns a snapshot of a known task.
func (m *Manager) Task(taskID string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[taskID]
	if !ok {
		return nil, errors.NewTaskNotFoundError(taskID)
	}
	snapshot := *task
	return &snapshot, nil
}

// QueueDepth reports how many tasks are waiting for capacity.
func (m *Manager) QueueDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// selectOfficerLocked picks the highest-scoring officer with free capacity,
// or nil when everyone is full. Caller holds the mutex.
func (m *Manager) selectOfficerLocked(loanType string) *models.Officer {
	var best *models.Officer
	bestScore := -1.0
	for _, o := range m.officers {
		if o.CurrentLoad >= o.Capacity {
			continue
		}
		if s := officerScore(o, loanType, m.jitter()); s > bestScore {
			best, bestScore = o, s
		}
	}
	return best
}

// assignLocked performs the assignment mutations. The due date is measured
// from assignment time, so a task promoted out of the queue gets a fresh
// deadline. Caller holds the mutex and has verified free capacity.
func (m *Manager) assignLocked(task *models.Task, officer *models.Officer, at time.Time) {
	officer.AssignedTasks[task.ID] = struct{}{}
	officer.CurrentLoad = len(officer.AssignedTasks)
	task.Status = models.TaskAssigned
	task.OfficerID = &officer.ID
	task.DueDate = dueDate(at, task.Priority)
}

// drainQueueLocked promotes queued tasks into free capacity, highest
// priority first, placing each task with the first officer that has a free
// slot. Tasks that find no free officer stay queued in order. Caller holds
// the mutex.
func (m *Manager) drainQueueLocked() []*models.Task {
	if len(m.queue) == 0 {
		return nil
	}

	sort.SliceStable(m.queue, func(i, j int) bool {
		return m.queue[i].Priority > m.queue[j].Priority
	})

	now := m.now()
	var drained []*models.Task
	remaining := m.queue[:0]
	for _, task := range m.queue {
		officer := m.firstFreeOfficerLocked()
		if officer == nil {
			remaining = append(remaining, task)
			continue
		}
		m.assignLocked(task, officer, now)
		metrics.TaskAssignments.WithLabelValues("drained").Inc()
		drained = append(drained, task)
	}
	m.queue = remaining
	return drained
}

// firstFreeOfficerLocked returns any officer with a free slot, or nil. The
// drain pass is first-fit; the full weighted scoring runs only on initial
// assignment. Caller holds the mutex.
func (m *Manager) firstFreeOfficerLocked() *models.Officer {
	for _, o := range m.officers {
		if o.CurrentLoad < o.Capacity {
			return o
		}
	}
	return nil
}

// resultForLocked rebuilds the assignment result for an already-known task.
// Caller holds the mutex.
func (m *Manager) resultForLocked(task *models.Task) *models.AssignmentResult {
	res := &models.AssignmentResult{Task: task}
	switch task.Status {
	case models.TaskQueued:
		res.Queued = true
		for i, queued := range m.queue {
			if queued.ID == task.ID {
				res.QueuePosition = i + 1
				break
			}
		}
	case models.TaskCompleted:
		res.Completed = true
		if task.OfficerID != nil {
			res.OfficerID = *task.OfficerID
		}
	default:
		res.Assigned = true
		if task.OfficerID != nil {
			res.OfficerID = *task.OfficerID
		}
	}
	return res
}
