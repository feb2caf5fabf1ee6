package recordclient

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/EO-DataHub/eodhp-record-services/models"
	"github.com/rs/zerolog"
)

// API is the part of the record API the state needs.
type API interface {
	List(ctx context.Context, level string) ([]models.Record, error)
	Update(ctx context.Context, id string, payload models.RecordPayload) (models.UpdateResult, error)
	Delete(ctx context.Context, id string) (models.DeleteResult, error)
	BulkDelete(ctx context.Context, ids []string) (models.BulkDeleteResponse, error)
}

// Search returns the records whose name or position contains term, ignoring case.
// An empty term returns every record.
func Search(term string, records []models.Record) []models.Record {
	needle := strings.ToLower(term)
	matched := make([]models.Record, 0, len(records))
	for _, record := range records {
		if strings.Contains(strings.ToLower(record.Name), needle) ||
			strings.Contains(strings.ToLower(record.Position), needle) {
			matched = append(matched, record)
		}
	}
	return matched
}

// Selection is a set of record ids.
type Selection map[string]struct{}

// Toggle adds id if absent and removes it if present. It reports whether id is now selected.
func (s Selection) Toggle(id string) bool {
	if _, ok := s[id]; ok {
		delete(s, id)
		return false
	}
	s[id] = struct{}{}
	return true
}

func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// ContainsAll reports whether every record in records is selected.
func (s Selection) ContainsAll(records []models.Record) bool {
	for _, record := range records {
		if !s.Has(record.ID.Hex()) {
			return false
		}
	}
	return true
}

// DeleteOutcome reports which ids a batch delete removed and which it could not.
type DeleteOutcome struct {
	Deleted []string
	Failed  map[string]error
}

// State holds the loaded records, the current filters and the selection set.
// It is safe for concurrent use.
type State struct {
	api API

	mu       sync.Mutex
	records  []models.Record
	selected Selection
	level    string
	search   string
}

func NewState(api API) *State {
	return &State{api: api, selected: Selection{}}
}

// Load replaces the record list with the records of the given level.
// On failure the error is logged and the list is left unchanged.
func (s *State) Load(ctx context.Context, level string) error {
	records, err := s.api.List(ctx, level)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("level", level).Msg("An error occurred loading records")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.level = level
	s.records = append([]models.Record(nil), records...)
	s.pruneSelection()
	return nil
}

func (s *State) Level() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

func (s *State) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = term
}

// Records returns a copy of the full loaded list.
func (s *State) Records() []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Record(nil), s.records...)
}

// Visible returns the loaded records matching the current search term.
func (s *State) Visible() []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Search(s.search, s.records)
}

// Append adds records to the end of the list, as the import pipeline does for created rows.
func (s *State) Append(records ...models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

// ToggleSelection flips the selection of id. Ids not in the loaded list are ignored.
func (s *State) ToggleSelection(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.selected.Has(id) && s.indexOf(id) < 0 {
		return false
	}
	return s.selected.Toggle(id)
}

func (s *State) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected.Has(id)
}

// Selected returns the selected ids in list order.
func (s *State) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedIDs()
}

// AllSelected reports whether every visible record is selected. It is false
// when nothing is visible.
func (s *State) AllSelected(visible []models.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(visible) > 0 && s.selected.ContainsAll(visible)
}

// ToggleSelectAll clears the selection when every visible record is selected,
// otherwise it selects exactly the visible records.
func (s *State) ToggleSelectAll(visible []models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(visible) > 0 && s.selected.ContainsAll(visible) {
		s.selected = Selection{}
		return
	}

	s.selected = Selection{}
	for _, record := range visible {
		s.selected[record.ID.Hex()] = struct{}{}
	}
	s.pruneSelection()
}

// DeleteOne deletes a record and removes it from the list and the selection.
func (s *State) DeleteOne(ctx context.Context, id string) error {
	if _, err := s.api.Delete(ctx, id); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("record_id", id).Msg("Failed to delete record")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
	return nil
}

// DeleteSelected issues one delete per selected id, one at a time. Only ids
// whose delete succeeded leave the list and the selection.
func (s *State) DeleteSelected(ctx context.Context) DeleteOutcome {
	outcome := DeleteOutcome{Failed: map[string]error{}}

	for _, id := range s.Selected() {
		if err := ctx.Err(); err != nil {
			outcome.Failed[id] = err
			continue
		}
		if _, err := s.api.Delete(ctx, id); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("record_id", id).Msg("Failed to delete record")
			outcome.Failed[id] = err
			continue
		}
		outcome.Deleted = append(outcome.Deleted, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range outcome.Deleted {
		s.removeLocked(id)
	}
	return outcome
}

// DeleteSelectedBulk removes every selected record with one bulk request and
// then reloads the list so it matches the server.
func (s *State) DeleteSelectedBulk(ctx context.Context) (int64, error) {
	ids := s.Selected()
	if len(ids) == 0 {
		return 0, nil
	}

	result, err := s.api.BulkDelete(ctx, ids)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int("requested", len(ids)).Msg("Bulk delete failed")
		return 0, err
	}

	if err := s.Load(ctx, s.Level()); err != nil {
		return result.DeletedCount, fmt.Errorf("records deleted but reload failed: %w", err)
	}
	return result.DeletedCount, nil
}

// Update saves new field values for a record and replaces the local copy.
func (s *State) Update(ctx context.Context, id string, payload models.RecordPayload) error {
	if _, err := s.api.Update(ctx, id, payload); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("record_id", id).Msg("Failed to update record")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.records[i].Name = payload.Name
		s.records[i].Position = payload.Position
		s.records[i].Level = payload.Level
	}
	return nil
}

func (s *State) removeLocked(id string) {
	if i := s.indexOf(id); i >= 0 {
		s.records = append(s.records[:i], s.records[i+1:]...)
	}
	delete(s.selected, id)
}

func (s *State) indexOf(id string) int {
	for i, record := range s.records {
		if record.ID.Hex() == id {
			return i
		}
	}
	return -1
}

// pruneSelection drops selected ids that are no longer loaded
func (s *State) pruneSelection() {
	present := make(map[string]struct{}, len(s.records))
	for _, record := range s.records {
		present[record.ID.Hex()] = struct{}{}
	}
	for id := range s.selected {
		if _, ok := present[id]; !ok {
			delete(s.selected, id)
		}
	}
}

func (s *State) selectedIDs() []string {
	ids := make([]string, 0, len(s.selected))
	for _, record := range s.records {
		if s.selected.Has(record.ID.Hex()) {
			ids = append(ids, record.ID.Hex())
		}
	}
	return ids
}
