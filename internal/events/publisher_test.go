package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"crossfund/internal/types"
)

func TestSubjectForStatus(t *testing.T) {
	assert.Equal(t, "crossfund.execution.completed", SubjectForStatus(types.ExecCompleted))
	assert.Equal(t, "crossfund.execution.bridging", SubjectForStatus(types.ExecBridging))
}
