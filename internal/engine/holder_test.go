package engine

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akozadaev/go_travel_recommender/internal/dataset"
)

const csvHeader = "name,province,region,terrain,lat,lon,month,avgtemp_c,maxwind_kph,totalprecip_mm,avghumidity,cloud_cover_mean,cluster,is_centroid,hci\n"

func writeDataset(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(csvHeader+body), 0o644))
}

func TestHolderReloadSwapsEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "df_ranking.csv")
	writeDataset(t, path,
		"Đà Nẵng,Đà Nẵng,R,ven biển,16,108,6,30,20,25,80,70,0,true,7.5\n"+
			"Đà Lạt,Lâm Đồng,R,miền núi,12,108,12,18,10,5,55,20,1,true,9\n")

	h, err := LoadHolder(path, zerolog.Nop())
	require.NoError(t, err)
	before := h.Current()
	require.Equal(t, 2, before.Dataset().Len())

	writeDataset(t, path,
		"Sa Pa,Lào Cai,R,miền núi,22,103,11,17,11,6,57,22,0,true,8.5\n"+
			"Hội An,Quảng Nam,R,ven biển,15,108,7,31,21,27,82,72,1,true,8\n"+
			"Huế,Thừa Thiên Huế,R,ven biển,16,107,3,25,15,10,75,50,1,false,7\n")
	require.NoError(t, h.Reload(path))

	after := h.Current()
	assert.NotSame(t, before, after)
	assert.Equal(t, 3, after.Dataset().Len())
	assert.NotEqual(t, before.Dataset().Normalizer().Mean(), after.Dataset().Normalizer().Mean())
	// старый снимок остаётся целым
	assert.Equal(t, 2, before.Dataset().Len())
}

func TestHolderReloadFailureKeepsEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "df_ranking.csv")
	writeDataset(t, path, "Đà Lạt,Lâm Đồng,R,miền núi,12,108,12,18,10,5,55,20,1,true,9\n")

	h, err := LoadHolder(path, zerolog.Nop())
	require.NoError(t, err)
	before := h.Current()

	require.NoError(t, os.WriteFile(path, []byte("name\nbroken\n"), 0o644))
	err = h.Reload(path)
	var loadErr *dataset.DataLoadError
	assert.True(t, errors.As(err, &loadErr))
	assert.Same(t, before, h.Current())

	writeDataset(t, path, "Đà Lạt,Lâm Đồng,R,miền núi,12,108,12,18,10,5,55,20,1,false,9\n")
	err = h.Reload(path)
	assert.ErrorIs(t, err, ErrEmptyCentroidSet)
	assert.Same(t, before, h.Current())
}

func TestLoadHolderMissingFile(t *testing.T) {
	_, err := LoadHolder(filepath.Join(t.TempDir(), "missing.csv"), zerolog.Nop())
	var loadErr *dataset.DataLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestHolderConcurrentReadsDuringReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "df_ranking.csv")
	writeDataset(t, path,
		"Đà Nẵng,Đà Nẵng,R,ven biển,16,108,6,30,20,25,80,70,0,true,7.5\n"+
			"Đà Lạt,Lâm Đồng,R,miền núi,12,108,12,18,10,5,55,20,1,true,9\n")
	h, err := LoadHolder(path, zerolog.Nop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				e := h.Current()
				recs := e.GetRecommendations(hotPrefs(), 5)
				assert.Len(t, recs, e.Dataset().Len())
			}
		}()
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, h.Reload(path))
	}
	wg.Wait()
}
