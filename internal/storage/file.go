package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/yourname/blackholeescape/internal"
)

type acceptedSuggestion struct {
	Login        string    `json:"login"`
	SuggestionID string    `json:"suggestion_id"`
	AcceptedAt   time.Time `json:"accepted_at"`
}

type FileStorage struct {
	schedules            map[string]*internal.ScheduleDocument // login -> document
	accepted             map[string]map[string]time.Time       // login -> suggestion id -> accepted at
	mu                   sync.RWMutex
	schedulesFile        string
	suggestionsFile      string
	saveSchedulesChan    chan struct{}
	saveSuggestionsChan  chan struct{}
	shutdownChan         chan struct{}
	closeOnce            sync.Once
	workers              sync.WaitGroup
	saveSchedulesDelay   time.Duration
	saveSuggestionsDelay time.Duration
	logger               internal.Logger
}

func NewFileStorage(schedulesFile, suggestionsFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		schedules:            make(map[string]*internal.ScheduleDocument),
		accepted:             make(map[string]map[string]time.Time),
		schedulesFile:        schedulesFile,
		suggestionsFile:      suggestionsFile,
		saveSchedulesChan:    make(chan struct{}, 1),
		saveSuggestionsChan:  make(chan struct{}, 1),
		shutdownChan:         make(chan struct{}),
		saveSchedulesDelay:   500 * time.Millisecond,
		saveSuggestionsDelay: 500 * time.Millisecond,
		logger:               logger,
	}

	if err := s.loadSchedules(); err != nil {
		logger.Errorf("storage: failed to load schedules: %v", err)
		return nil, err
	}
	if err := s.loadSuggestions(); err != nil {
		logger.Errorf("storage: failed to load accepted suggestions: %v", err)
		return nil, err
	}

	s.workers.Add(2)
	go s.saveWorker(s.saveSchedulesChan, s.saveSchedulesDelay, "schedules", s.saveSchedules)
	go s.saveWorker(s.saveSuggestionsChan, s.saveSuggestionsDelay, "accepted suggestions", s.saveSuggestions)

	return s, nil
}

// readJSONFile decodes path into out. A missing or empty file is not an error.
func readJSONFile(path string, out interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (s *FileStorage) loadSchedules() error {
	var docs []*internal.ScheduleDocument
	if err := readJSONFile(s.schedulesFile, &docs); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		s.schedules[d.Login] = d
	}
	return nil
}

func (s *FileStorage) loadSuggestions() error {
	var rows []acceptedSuggestion
	if err := readJSONFile(s.suggestionsFile, &rows); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		if s.accepted[r.Login] == nil {
			s.accepted[r.Login] = make(map[string]time.Time)
		}
		s.accepted[r.Login][r.SuggestionID] = r.AcceptedAt
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) saveSchedules() error {
	s.mu.RLock()
	docs := make([]*internal.ScheduleDocument, 0, len(s.schedules))
	for _, d := range s.schedules {
		docs = append(docs, d)
	}
	s.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool { return docs[i].Login < docs[j].Login })
	return atomicWriteFileJSON(s.schedulesFile, docs)
}

func (s *FileStorage) saveSuggestions() error {
	s.mu.RLock()
	rows := make([]acceptedSuggestion, 0)
	for login, ids := range s.accepted {
		for id, at := range ids {
			rows = append(rows, acceptedSuggestion{Login: login, SuggestionID: id, AcceptedAt: at})
		}
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Login != rows[j].Login {
			return rows[i].Login < rows[j].Login
		}
		return rows[i].SuggestionID < rows[j].SuggestionID
	})
	return atomicWriteFileJSON(s.suggestionsFile, rows)
}

// saveWorker debounces writes: every signal on trigger pushes the save back by delay.
func (s *FileStorage) saveWorker(trigger <-chan struct{}, delay time.Duration, what string, save func() error) {
	defer s.workers.Done()
	timer := time.NewTimer(delay)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-trigger:
			timer.Reset(delay)
		case <-timer.C:
			if err := save(); err != nil {
				s.logger.Errorf("storage: error saving %s: %v", what, err)
			}
		case <-s.shutdownChan:
			timer.Stop()
			return
		}
	}
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Close stops the workers, waits for any save in flight and then flushes both
// files synchronously.
func (s *FileStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		s.workers.Wait()
		err = errors.Join(s.saveSchedules(), s.saveSuggestions())
	})
	return err
}

// --- ScheduleRepository ---
func (s *FileStorage) SaveSchedule(ctx context.Context, doc *internal.ScheduleDocument) error {
	cp := *doc
	cp.Slots = cloneSchedule(doc.Slots)

	s.mu.Lock()
	s.schedules[doc.Login] = &cp
	s.mu.Unlock()

	notify(s.saveSchedulesChan)
	return nil
}

func (s *FileStorage) GetSchedule(ctx context.Context, login string) (*internal.ScheduleDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.schedules[login]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *doc
	cp.Slots = cloneSchedule(doc.Slots)
	return &cp, nil
}

// --- SuggestionRepository ---
func (s *FileStorage) AcceptSuggestion(ctx context.Context, login, suggestionID string, at time.Time) error {
	s.mu.Lock()
	if s.accepted[login] == nil {
		s.accepted[login] = make(map[string]time.Time)
	}
	if _, ok := s.accepted[login][suggestionID]; !ok {
		s.accepted[login][suggestionID] = at
	}
	s.mu.Unlock()

	notify(s.saveSuggestionsChan)
	return nil
}

func (s *FileStorage) ListAccepted(ctx context.Context, login string) (map[string]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]time.Time, len(s.accepted[login]))
	for id, at := range s.accepted[login] {
		out[id] = at
	}
	return out, nil
}

func cloneSchedule(in internal.Schedule) internal.Schedule {
	if in == nil {
		return nil
	}
	out := make(internal.Schedule, len(in))
	for i, slot := range in {
		out[i] = internal.ScheduleSlot{
			Time: slot.Time,
			Days: append([]internal.DayEntry(nil), slot.Days...),
		}
	}
	return out
}

// --- Compile-time assertions ---
var _ ScheduleRepository = (*FileStorage)(nil)
var _ SuggestionRepository = (*FileStorage)(nil)
