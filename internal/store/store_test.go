package store_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"farm-catalog/internal/config"
	"farm-catalog/internal/database"
	"farm-catalog/internal/models"
	"farm-catalog/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := database.Open(&config.Config{DatabaseURL: filepath.Join(t.TempDir(), "store.db")}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return store.New(db)
}

func addProduct(t *testing.T, st *store.Store, name, category string, active bool, createdAt time.Time) *models.Product {
	t.Helper()
	p := models.NewProduct(name, "", category, nil)
	p.IsActive = active
	p.CreatedAt = createdAt
	require.NoError(t, st.CreateProduct(context.Background(), p))
	return p
}

func TestLatestActive_CapsAndOrders(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 8; i++ {
		addProduct(t, st, fmt.Sprintf("ram-%d", i), models.CategoryRam, true, base.Add(time.Duration(i)*time.Hour))
	}
	addProduct(t, st, "hidden-ram", models.CategoryRam, false, base.Add(100*time.Hour))
	addProduct(t, st, "bean-0", models.CategoryBean, true, base)

	rams, err := st.LatestActive(ctx, models.CategoryRam, 6)
	require.NoError(t, err)
	require.Len(t, rams, 6)
	assert.Equal(t, "ram-7", rams[0].Name)
	assert.Equal(t, "ram-2", rams[5].Name)
	for i := 1; i < len(rams); i++ {
		assert.False(t, rams[i].CreatedAt.After(rams[i-1].CreatedAt), "rams must be newest first")
	}
	for _, p := range rams {
		assert.True(t, p.IsActive)
		assert.Equal(t, models.CategoryRam, p.Category)
	}

	beans, err := st.LatestActive(ctx, models.CategoryBean, 6)
	require.NoError(t, err)
	require.Len(t, beans, 1)
}

func TestLatestActive_TieBreaksOnID(t *testing.T) {
	st := setupStore(t)
	same := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	first := addProduct(t, st, "first", models.CategoryBean, true, same)
	second := addProduct(t, st, "second", models.CategoryBean, true, same)

	beans, err := st.LatestActive(context.Background(), models.CategoryBean, 6)
	require.NoError(t, err)
	require.Len(t, beans, 2)
	assert.Equal(t, second.ID, beans[0].ID)
	assert.Equal(t, first.ID, beans[1].ID)
}

func TestProductByID_InactiveStillFound(t *testing.T) {
	st := setupStore(t)
	p := addProduct(t, st, "retired", models.CategoryRam, false, time.Now().UTC())

	got, err := st.ProductByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = st.ProductByID(context.Background(), p.ID+100)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteProduct_CascadesMedia(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	p := addProduct(t, st, "Dorper Ram A", models.CategoryRam, true, time.Now().UTC())
	other := addProduct(t, st, "Dorper Ram B", models.CategoryRam, true, time.Now().UTC())

	for i := 0; i < 3; i++ {
		require.NoError(t, st.CreateMedia(ctx, &models.Media{
			ProductID: p.ID,
			MediaType: models.MediaVideo,
			FilePath:  fmt.Sprintf("uploads/videos/%d.mp4", i),
		}))
	}
	require.NoError(t, st.CreateMedia(ctx, &models.Media{ProductID: other.ID, MediaType: models.MediaImage, FilePath: "uploads/videos/b.jpg"}))
	require.NoError(t, st.CreateInquiry(ctx, &models.Inquiry{ProductID: &p.ID, Name: "A", Email: "a@x.com", Message: "hi"}))

	removed, err := st.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, removed, 3)

	orphans, err := st.MediaByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	kept, err := st.MediaByProduct(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	inquiries, err := st.ListInquiries(ctx)
	require.NoError(t, err)
	require.Len(t, inquiries, 1)
	assert.Nil(t, inquiries[0].ProductID, "inquiry survives with product cleared")

	_, err = st.DeleteProduct(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSetProductActive(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	p := addProduct(t, st, "Pinto Beans", models.CategoryBean, true, time.Now().UTC())

	got, err := st.SetProductActive(ctx, p.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = st.SetProductActive(ctx, 999, true)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInquiries(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	inq := &models.Inquiry{Name: "A", Email: "a@x.com", Message: "hi"}
	require.NoError(t, st.CreateInquiry(ctx, inq))
	assert.Equal(t, models.InquiryStatusNew, inq.Status)
	assert.Equal(t, time.UTC, inq.CreatedAt.Location())

	require.NoError(t, st.UpdateInquiryStatus(ctx, inq.ID, "contacted"))
	assert.ErrorIs(t, st.UpdateInquiryStatus(ctx, 999, "contacted"), store.ErrNotFound)

	n, err := st.CountInquiries(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	fresh, err := st.CountInquiriesByStatus(ctx, models.InquiryStatusNew)
	require.NoError(t, err)
	assert.EqualValues(t, 0, fresh)
}

func TestRecentEvents_Limit(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, st.CreateEvent(ctx, &models.AnalyticsEvent{EventName: fmt.Sprintf("e%d", i)}))
	}

	events, err := st.RecentEvents(ctx, 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "e4", events[0].EventName)
}

func TestSessions(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	u, err := st.UpsertAdmin(ctx, "admin@farm.test", "hash-1")
	require.NoError(t, err)
	again, err := st.UpsertAdmin(ctx, "admin@farm.test", "hash-2")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "hash-2", again.PasswordHash)

	require.NoError(t, st.CreateSession(ctx, &models.Session{ID: "live", UserID: u.ID, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, st.CreateSession(ctx, &models.Session{ID: "stale", UserID: u.ID, ExpiresAt: now.Add(-time.Hour)}))

	_, err = st.ActiveSession(ctx, "live", now)
	require.NoError(t, err)
	_, err = st.ActiveSession(ctx, "stale", now)
	assert.ErrorIs(t, err, store.ErrNotFound)

	purged, err := st.PurgeExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	require.NoError(t, st.DeleteSession(ctx, "live"))
	_, err = st.ActiveSession(ctx, "live", now)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCountMediaByPath(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	a := addProduct(t, st, "Dorper Ram A", models.CategoryRam, true, time.Now().UTC())
	b := addProduct(t, st, "Dorper Ram B", models.CategoryRam, true, time.Now().UTC())

	for _, id := range []uint{a.ID, b.ID} {
		require.NoError(t, st.CreateMedia(ctx, &models.Media{ProductID: id, MediaType: models.MediaVideo, FilePath: "uploads/videos/clip.mp4"}))
	}

	n, err := st.CountMediaByPath(ctx, "uploads/videos/clip.mp4")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = st.DeleteProduct(ctx, a.ID)
	require.NoError(t, err)
	n, err = st.CountMediaByPath(ctx, "uploads/videos/clip.mp4")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = st.CountMediaByPath(ctx, "uploads/videos/other.mp4")
	require.NoError(t, err)
	assert.Zero(t, n)
}
