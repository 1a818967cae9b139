package ledgerdb

import (
	"github.com/lopay/lopay/core/dependent"
)

type dependentRepository struct {
	db *DB
}

func NewDependentRepository(db *DB) dependent.Repository {
	return &dependentRepository{db: db}
}

func (repo *dependentRepository) CreateDependent(dep dependent.Dependent) (dependent.Dependent, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	dep.ID = repo.db.ids.NextID()
	repo.db.dependents[dep.ID] = &dep
	return dep, nil
}

func (repo *dependentRepository) QueryAllDependents() ([]dependent.Dependent, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	deps := make([]dependent.Dependent, 0, len(repo.db.dependents))
	for _, dep := range repo.db.dependents {
		deps = append(deps, *dep)
	}
	return deps, nil
}

func (repo *dependentRepository) GetDependentByID(id string) (dependent.Dependent, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if dep, ok := repo.db.dependents[id]; ok {
		return *dep, nil
	}
	return dependent.Dependent{}, dependent.ErrNotFound
}

func (repo *dependentRepository) UpdateDependent(dep dependent.Dependent) (dependent.Dependent, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.dependents[dep.ID]; !ok {
		return dependent.Dependent{}, dependent.ErrNotFound
	}
	repo.db.dependents[dep.ID] = &dep
	return dep, nil
}

func (repo *dependentRepository) DeleteDependent(id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.dependents[id]; !ok {
		return dependent.ErrNotFound
	}
	repo.db.deleteDependentLocked(id)
	return nil
}
