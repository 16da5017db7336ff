package courses

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	coursesdomain "kivaiakids-api/internal/domain/courses"
	"kivaiakids-api/internal/infra/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjectStore records the keys written and deleted.
type fakeObjectStore struct {
	puts    []string
	deletes []string
}

func (f *fakeObjectStore) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectStore) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func setupStorage(t *testing.T) *fakeObjectStore {
	fake := &fakeObjectStore{}
	storage.Default = storage.New(fake, "kivaiakids-test", "https://cdn.test")
	t.Cleanup(func() { storage.Default = nil })
	return fake
}

func uploadRouter() *gin.Engine {
	r := gin.New()
	r.POST("/admin/courses/:id/pdf", stubAuth(1, "admin"), UploadCoursePDF)
	r.DELETE("/admin/courses/:id", stubAuth(1, "admin"), DeleteCourse)
	return r
}

func pdfForm(t *testing.T, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestDeleteCourse_RemovesStoredObjects(t *testing.T) {
	db := setupDB(t)
	fake := setupStorage(t)

	pdfKey := "courses/c1/pdfs/lecon.pdf"
	thumbKey := "courses/c1/thumbnails/lecon.png"
	course := coursesdomain.Course{
		Title:         "Les saisons",
		Category:      coursesdomain.CategorySciences,
		PDFPath:       &pdfKey,
		ThumbnailPath: &thumbKey,
	}
	require.NoError(t, db.Create(&course).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/admin/courses/"+course.ID, nil)
	uploadRouter().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.ElementsMatch(t, []string{pdfKey, thumbKey}, fake.deletes)
}

func TestDeleteCourse_NoFilesNoRemovals(t *testing.T) {
	db := setupDB(t)
	fake := setupStorage(t)

	course := coursesdomain.Course{Title: "Sans fichier", Category: coursesdomain.CategoryArts}
	require.NoError(t, db.Create(&course).Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/admin/courses/"+course.ID, nil)
	uploadRouter().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, fake.deletes)
}

func TestUploadCoursePDF_ReplacesPreviousObject(t *testing.T) {
	db := setupDB(t)
	fake := setupStorage(t)

	oldKey := "courses/c2/pdfs/ancien.pdf"
	course := coursesdomain.Course{
		Title:    "Les volcans",
		Category: coursesdomain.CategorySciences,
		PDFPath:  &oldKey,
	}
	require.NoError(t, db.Create(&course).Error)

	body, contentType := pdfForm(t, "nouveau.pdf")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/courses/"+course.ID+"/pdf", body)
	req.Header.Set("Content-Type", contentType)
	uploadRouter().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	newKey := fmt.Sprintf("courses/%s/pdfs/nouveau.pdf", course.ID)
	assert.Equal(t, []string{newKey}, fake.puts)
	assert.Equal(t, []string{oldKey}, fake.deletes)

	var stored coursesdomain.Course
	require.NoError(t, db.First(&stored, "id = ?", course.ID).Error)
	require.NotNil(t, stored.PDFPath)
	assert.Equal(t, newKey, *stored.PDFPath)
}
