package repos

import (
	"time"

	"github.com/google/uuid"

	"github.com/studyforge/studyforge/internal/db/models"
)

func (s *DBRepositoryTestSuite) TestCreateGeneration() {
	gen := s.createTestGeneration()

	s.NotEqual(uuid.Nil, gen.ID)
	s.Equal(models.GenerationStatusQueued, gen.Status)
	s.Equal(0, gen.Progress)

	fetched, err := s.genRepo.GetByID(s.ctx, gen.OwnerID, gen.ID)
	s.NoError(err)
	s.Equal(gen.ID, fetched.ID)
	s.Equal(gen.SourceURL, fetched.SourceURL)
}

func (s *DBRepositoryTestSuite) TestCreateGenerationInvalidOwner() {
	gen := &models.Generation{
		SourceURL: "https://example.com/v",
		Status:    models.GenerationStatusQueued,
	}
	err := s.genRepo.Create(s.ctx, gen)
	s.Error(err)
}

func (s *DBRepositoryTestSuite) TestGetByIDOwnerScoped() {
	gen := s.createTestGeneration()
	otherOwner := gen.OwnerID + 1

	// the owning caller sees the record
	fetched, err := s.genRepo.GetByID(s.ctx, gen.OwnerID, gen.ID)
	s.NoError(err)
	s.Equal(gen.ID, fetched.ID)

	// everyone else gets not-found, same as a missing record
	_, err = s.genRepo.GetByID(s.ctx, otherOwner, gen.ID)
	s.Error(err)
	s.True(IsNotFound(err))

	_, err = s.genRepo.GetByID(s.ctx, gen.OwnerID, uuid.New())
	s.Error(err)
	s.True(IsNotFound(err))
}

func (s *DBRepositoryTestSuite) TestGetByIDSystem() {
	gen := s.createTestGeneration()

	fetched, err := s.genRepo.GetByIDSystem(s.ctx, gen.ID)
	s.NoError(err)
	s.Equal(gen.ID, fetched.ID)
	s.Equal(gen.OwnerID, fetched.OwnerID)
}

func (s *DBRepositoryTestSuite) TestListNewestFirst() {
	ownerID := s.randomOwnerID()
	base := time.Now().UTC().Add(-time.Hour)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		gen := &models.Generation{
			OwnerID:   ownerID,
			SourceURL: "https://example.com/v",
			Status:    models.GenerationStatusQueued,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		s.Require().NoError(s.genRepo.Create(s.ctx, gen))
		ids = append(ids, gen.ID)
	}

	gens, err := s.genRepo.List(s.ctx, ownerID, &models.ListOptions{})
	s.NoError(err)
	s.Require().Len(gens, 3)
	s.Equal(ids[2], gens[0].ID)
	s.Equal(ids[1], gens[1].ID)
	s.Equal(ids[0], gens[2].ID)
}

func (s *DBRepositoryTestSuite) TestListScopedToOwner() {
	gen := s.createTestGeneration()
	other := s.createTestGenerationForOwner(gen.OwnerID + 1)

	gens, err := s.genRepo.List(s.ctx, gen.OwnerID, &models.ListOptions{})
	s.NoError(err)
	s.Require().Len(gens, 1)
	s.Equal(gen.ID, gens[0].ID)
	s.NotEqual(other.ID, gens[0].ID)
}

func (s *DBRepositoryTestSuite) TestListStatusFilter() {
	ownerID := s.randomOwnerID()
	queued := s.createTestGenerationForOwner(ownerID)
	claimed := s.createTestGenerationForOwner(ownerID)

	applied, err := s.genRepo.Transition(s.ctx, claimed.ID,
		[]models.GenerationStatus{models.GenerationStatusQueued},
		map[string]interface{}{models.GenerationStatusField: models.GenerationStatusProcessing})
	s.NoError(err)
	s.True(applied)

	status := models.GenerationStatusProcessing
	gens, err := s.genRepo.List(s.ctx, ownerID, &models.ListOptions{GenerationStatus: &status})
	s.NoError(err)
	s.Require().Len(gens, 1)
	s.Equal(claimed.ID, gens[0].ID)

	status = models.GenerationStatusQueued
	gens, err = s.genRepo.List(s.ctx, ownerID, &models.ListOptions{GenerationStatus: &status})
	s.NoError(err)
	s.Require().Len(gens, 1)
	s.Equal(queued.ID, gens[0].ID)
}

func (s *DBRepositoryTestSuite) TestTransitionWinnerAndLoser() {
	gen := s.createTestGeneration()
	fromQueued := []models.GenerationStatus{models.GenerationStatusQueued}

	// first claim wins
	applied, err := s.genRepo.Transition(s.ctx, gen.ID, fromQueued,
		map[string]interface{}{models.GenerationStatusField: models.GenerationStatusProcessing})
	s.NoError(err)
	s.True(applied)

	// second claim matches zero rows, no error
	applied, err = s.genRepo.Transition(s.ctx, gen.ID, fromQueued,
		map[string]interface{}{models.GenerationStatusField: models.GenerationStatusProcessing})
	s.NoError(err)
	s.False(applied)

	fetched, err := s.genRepo.GetByIDSystem(s.ctx, gen.ID)
	s.NoError(err)
	s.Equal(models.GenerationStatusProcessing, fetched.Status)
}

func (s *DBRepositoryTestSuite) TestTransitionUnknownID() {
	applied, err := s.genRepo.Transition(s.ctx, uuid.New(),
		[]models.GenerationStatus{models.GenerationStatusQueued},
		map[string]interface{}{models.GenerationStatusField: models.GenerationStatusProcessing})
	s.NoError(err)
	s.False(applied)
}

func (s *DBRepositoryTestSuite) TestTransitionOwnedWrongOwner() {
	gen := s.createTestGeneration()
	active := []models.GenerationStatus{models.GenerationStatusQueued, models.GenerationStatusProcessing}

	applied, err := s.genRepo.TransitionOwned(s.ctx, gen.OwnerID+1, gen.ID, active,
		map[string]interface{}{models.GenerationStatusField: models.GenerationStatusCanceled})
	s.NoError(err)
	s.False(applied)

	// record untouched
	fetched, err := s.genRepo.GetByIDSystem(s.ctx, gen.ID)
	s.NoError(err)
	s.Equal(models.GenerationStatusQueued, fetched.Status)

	applied, err = s.genRepo.TransitionOwned(s.ctx, gen.OwnerID, gen.ID, active,
		map[string]interface{}{models.GenerationStatusField: models.GenerationStatusCanceled})
	s.NoError(err)
	s.True(applied)
}

func (s *DBRepositoryTestSuite) TestAdvanceProgressMonotonic() {
	gen := s.createTestGeneration()

	// progress reports are ignored before the claim
	applied, err := s.genRepo.AdvanceProgress(s.ctx, gen.ID, 10, nil)
	s.NoError(err)
	s.False(applied)

	_, err = s.genRepo.Transition(s.ctx, gen.ID,
		[]models.GenerationStatus{models.GenerationStatusQueued},
		map[string]interface{}{models.GenerationStatusField: models.GenerationStatusProcessing})
	s.Require().NoError(err)

	applied, err = s.genRepo.AdvanceProgress(s.ctx, gen.ID, 40, nil)
	s.NoError(err)
	s.True(applied)

	// equal progress is accepted, backward is not
	applied, err = s.genRepo.AdvanceProgress(s.ctx, gen.ID, 40, nil)
	s.NoError(err)
	s.True(applied)

	applied, err = s.genRepo.AdvanceProgress(s.ctx, gen.ID, 25, nil)
	s.NoError(err)
	s.False(applied)

	fetched, err := s.genRepo.GetByIDSystem(s.ctx, gen.ID)
	s.NoError(err)
	s.Equal(40, fetched.Progress)
}

func (s *DBRepositoryTestSuite) TestAdvanceProgressStoresMetadata() {
	gen := s.createTestGeneration()
	_, err := s.genRepo.Transition(s.ctx, gen.ID,
		[]models.GenerationStatus{models.GenerationStatusQueued},
		map[string]interface{}{models.GenerationStatusField: models.GenerationStatusProcessing})
	s.Require().NoError(err)

	meta := &models.VideoMetadata{Title: "Lecture 1", DurationSeconds: 900}
	raw, err := meta.ToJSON()
	s.Require().NoError(err)

	applied, err := s.genRepo.AdvanceProgress(s.ctx, gen.ID, 15, raw)
	s.NoError(err)
	s.True(applied)

	fetched, err := s.genRepo.GetByIDSystem(s.ctx, gen.ID)
	s.NoError(err)
	decoded, err := fetched.DecodedMetadata()
	s.NoError(err)
	s.Require().NotNil(decoded)
	s.Equal("Lecture 1", decoded.Title)
	s.Equal(900, decoded.DurationSeconds)
}

func (s *DBRepositoryTestSuite) TestEventAppendAndList() {
	gen := s.createTestGeneration()

	err := s.eventRepo.Append(s.ctx, &models.GenerationEvent{
		GenerationID: gen.ID,
		FromStatus:   "",
		ToStatus:     models.GenerationStatusQueued,
		ActorType:    models.ActorTypeOwner,
		ActorOwnerID: &gen.OwnerID,
	})
	s.NoError(err)

	err = s.eventRepo.Append(s.ctx, &models.GenerationEvent{
		GenerationID: gen.ID,
		FromStatus:   models.GenerationStatusQueued,
		ToStatus:     models.GenerationStatusProcessing,
		ActorType:    models.ActorTypeSystem,
	})
	s.NoError(err)

	events, err := s.eventRepo.ListByGeneration(s.ctx, gen.ID)
	s.NoError(err)
	s.Require().Len(events, 2)
	s.Equal(models.GenerationStatusQueued, events[0].ToStatus)
	s.Equal(models.GenerationStatusProcessing, events[1].ToStatus)

	actor := events[0].Actor()
	s.Equal(models.ActorTypeOwner, actor.Type)
	s.Require().NotNil(actor.OwnerID)
	s.Equal(gen.OwnerID, *actor.OwnerID)
}

func (s *DBRepositoryTestSuite) TestEventAppendRequiresGenerationID() {
	err := s.eventRepo.Append(s.ctx, &models.GenerationEvent{
		ToStatus:  models.GenerationStatusQueued,
		ActorType: models.ActorTypeSystem,
	})
	s.Error(err)
}
