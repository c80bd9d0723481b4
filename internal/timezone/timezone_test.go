package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	loc, err := Load("Asia/Almaty")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Almaty", loc.String())

	again, err := Load("Asia/Almaty")
	require.NoError(t, err)
	assert.Same(t, loc, again)

	_, err = Load("")
	assert.Error(t, err)

	_, err = Load("Not/AZone")
	assert.Error(t, err)
}

func TestNowIn_UnknownZoneUsesUTC(t *testing.T) {
	assert.Equal(t, time.UTC, NowIn("Mars/Olympus_Mons").Location())
	assert.Equal(t, "UTC", NowIn("UTC").Location().String())
}
