package kvstore_test

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/your-org/bookstore-backend/internal/infrastructure/kvstore"
)

func TestMemoryContract(t *testing.T) {
	suite.Run(t, &contractSuite{store: kvstore.NewMemory(0)})
}
