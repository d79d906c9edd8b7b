package governance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sanctum-collective/sanctum/internal/app/domain/member"
)

func TestVotingMultiplier(t *testing.T) {
	assert.Equal(t, 2.0, VotingMultiplier(member.TierShadow))
	assert.Equal(t, 1.5, VotingMultiplier(member.TierOracle))
	assert.Equal(t, 1.2, VotingMultiplier(member.TierHerald))
	assert.Equal(t, 1.0, VotingMultiplier(member.TierInitiate))
	assert.Equal(t, 1.0, VotingMultiplier(member.Tier("archon")))
}

func TestAPY(t *testing.T) {
	assert.Equal(t, 15, APY(member.TierShadow))
	assert.Equal(t, 12, APY(member.TierOracle))
	assert.Equal(t, 8, APY(member.TierHerald))
	assert.Equal(t, 5, APY(member.TierInitiate))
}
