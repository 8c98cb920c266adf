package catalog

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"audio-loader/core/cooked"
	"audio-loader/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	repo := NewRepository(db, zap.NewNop(), 0)
	_, err = ImportManifest(context.Background(), repo, "testdata/project.yaml")
	require.NoError(t, err)
	return repo
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestImportManifest_Summary(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	repo := NewRepository(db, zap.NewNop(), 0)

	summary, err := ImportManifest(context.Background(), repo, "testdata/project.yaml")
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{
		SoundBanks:      3,
		Media:           2,
		ExternalSources: 1,
		Objects:         4,
		GroupValues:     2,
		InitBank:        true,
	}, summary)

	// A second import replaces instead of appending.
	summary, err = ImportManifest(context.Background(), repo, "testdata/project.yaml")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.SoundBanks)

	banks, err := repo.ListSummaries(context.Background(), cooked.KindSoundBank)
	require.NoError(t, err)
	assert.Len(t, banks, 2)
}

func TestRepository_ReplaceRejectsSharedGroupValueID(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	_, err := repo.Replace(ctx, &Manifest{GroupValues: []cooked.GroupValue{
		{GroupValueID: cooked.GroupValueID{Type: cooked.GroupValueSwitch, GroupID: 3, ID: 31}},
		{GroupValueID: cooked.GroupValueID{Type: cooked.GroupValueState, GroupID: 4, ID: 31}},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group value 31 declared twice")

	// The rejected manifest left the previous import in place.
	values, err := repo.ListSummaries(ctx, cooked.KindGroupValue)
	require.NoError(t, err)
	assert.Len(t, values, 2)
}

func TestRepository_Lookups(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	event, err := repo.Event(ctx, 200)
	require.NoError(t, err)
	assert.Equal(t, "Play_Greeting", event.Name())
	assert.True(t, event.Localized())
	req, lang, ok := event.Resolve(cooked.Language{ID: 2})
	require.True(t, ok)
	assert.Equal(t, "French(France)", lang.Name)
	assert.Equal(t, "French(France)/Voices.bnk", req.SoundBanks[0].Path)

	bank, err := repo.SoundBank(ctx, 20)
	require.NoError(t, err)
	assert.Len(t, bank.Variants, 2)
	assert.True(t, bank.Localized())

	media, err := repo.Media(ctx, 502)
	require.NoError(t, err)
	assert.Equal(t, cooked.MediaInSoundBank, media.Location)
	assert.Equal(t, cooked.ShortID(10), media.SoundBankID)

	source, err := repo.ExternalSource(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "External/radio.wem", source.Path)

	value, err := repo.GroupValue(ctx, 41)
	require.NoError(t, err)
	assert.Equal(t, cooked.GroupValueID{Type: cooked.GroupValueState, GroupID: 4, ID: 41}, value.GroupValueID)

	initBank, err := repo.InitBank(ctx)
	require.NoError(t, err)
	english, ok := initBank.FindLanguage("english(us)")
	require.True(t, ok)
	assert.Equal(t, cooked.ShortID(1), english.ID)

	bus, err := repo.AuxBus(ctx, 300)
	require.NoError(t, err)
	assert.Equal(t, "Reverb", bus.Name())

	set, err := repo.ShareSet(ctx, 400)
	require.NoError(t, err)
	assert.Equal(t, cooked.KindShareSet, set.Kind())
}

func TestRepository_NotFound(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	for _, kind := range []cooked.Kind{cooked.KindEvent, cooked.KindSoundBank, cooked.KindMedia, cooked.KindExternalSource, cooked.KindGroupValue} {
		_, err := repo.Record(ctx, kind, 9999)
		assert.ErrorIs(t, err, ErrNotFound, kind.String())
	}

	_, err := repo.ByName(ctx, cooked.KindEvent, "Play_Nothing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_ByName(t *testing.T) {
	repo := setupRepository(t)

	rec, err := repo.ByName(context.Background(), cooked.KindEvent, "Play_Footstep")
	require.NoError(t, err)
	assert.Equal(t, cooked.ShortID(100), rec.ShortID())

	rec, err = repo.ByName(context.Background(), cooked.KindSoundBank, "Voices")
	require.NoError(t, err)
	assert.Equal(t, cooked.KindSoundBank, rec.Kind())
}

func TestRepository_ListSummaries(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	banks, err := repo.ListSummaries(ctx, cooked.KindSoundBank)
	require.NoError(t, err)
	require.Len(t, banks, 2)
	assert.Equal(t, []string{"English(US)", "French(France)"}, banks[1].Languages)

	events, err := repo.ListSummaries(ctx, cooked.KindEvent)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Play_Footstep", events[0].Name)

	_, err = repo.ListSummaries(ctx, cooked.KindUnknown)
	assert.Error(t, err)
}

func TestRepository_Files(t *testing.T) {
	repo := setupRepository(t)

	files, err := repo.Files(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]cooked.Kind{
		"Init.bnk":                  cooked.KindInitBank,
		"Music.bnk":                 cooked.KindSoundBank,
		"English(US)/Voices.bnk":    cooked.KindSoundBank,
		"French(France)/Voices.bnk": cooked.KindSoundBank,
		"Media/501.wem":             cooked.KindMedia,
		"External/radio.wem":        cooked.KindExternalSource,
	}, files)
}

func TestRepository_CachesLookups(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db, zap.NewNop(), 0)

	rows := sqlmock.NewRows([]string{"short_id", "name", "location", "path"}).
		AddRow(501, "Footstep_Grass", "streamed", "Media/501.wem")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `catalog_media` WHERE short_id = ?")).
		WillReturnRows(rows)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			media, err := repo.Media(context.Background(), 501)
			assert.NoError(t, err)
			assert.Equal(t, "Media/501.wem", media.Path)
		}()
	}
	wg.Wait()

	_, err := repo.Media(context.Background(), 501)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	repo.Invalidate()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `catalog_media`")).
		WillReturnRows(sqlmock.NewRows([]string{"short_id"}))
	_, err = repo.Media(context.Background(), 501)
	assert.ErrorIs(t, err, ErrNotFound)
}
