package worker

import "slices"

// AddProfile добавляет профиль в выборку (если ещё нет)
func (w *DigestScheduler) AddProfile(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !slices.Contains(w.profiles, name) {
		w.profiles = append(w.profiles, name)
	}
}

// RemoveProfile удаляет профиль из выборки
func (w *DigestScheduler) RemoveProfile(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if i := slices.Index(w.profiles, name); i >= 0 {
		w.profiles = slices.Delete(w.profiles, i, i+1)
	}
}

// GetProfiles возвращает копию выборки. nil — все профили.
func (w *DigestScheduler) GetProfiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.profiles) == 0 {
		return nil
	}

	return slices.Clone(w.profiles)
}

// SetProfiles заменяет выборку целиком
func (w *DigestScheduler) SetProfiles(names []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(names) == 0 {
		w.profiles = nil
		return
	}

	w.profiles = slices.Clone(names)
}

// ClearProfiles очищает выборку (в дайджест попадут все профили)
func (w *DigestScheduler) ClearProfiles() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.profiles = nil
}

func (w *DigestScheduler) HasProfile(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return slices.Contains(w.profiles, name)
}
