package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.Storage = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TestGetWizardReturnsCopy() {
	s.Require().NoError(s.storage.SaveWizard(s.Ctx, &model.Wizard{ID: "sess-1", Draft: model.NewDraft()}))

	first, err := s.storage.GetWizard(s.Ctx, "sess-1")
	s.Require().NoError(err)
	first.Draft.Email = "mutated@example.com"

	second, err := s.storage.GetWizard(s.Ctx, "sess-1")
	s.Require().NoError(err)
	s.Empty(second.Draft.Email)
}
