package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulehq/shule/core/student"
)

func createStudent(t *testing.T, app *testApp, name, email, program string) student.Student {
	t.Helper()
	std, err := app.studentSvc.Create(context.Background(), student.NewStudent{Name: name, Email: email, Program: program})
	require.NoError(t, err)
	return std
}

func Test_studentApi_crud(t *testing.T) {
	app := newTestApp(t)

	amani := createStudent(t, app, "Amani Abedi", "amani@test.cd", "Computer Science")
	zawadi := createStudent(t, app, "Zawadi Kanku", "zawadi@test.cd", "")

	tests := []httpTest{
		{
			name: "Get all, ordered by name", method: http.MethodGet, path: "/v1/students",
			wantCode: http.StatusOK, wantData: marshalList(t, amani, zawadi),
		},
		{
			name: "search matches name or email", method: http.MethodGet, path: "/v1/students?search=ZAWA",
			wantCode: http.StatusOK, wantData: marshalList(t, zawadi),
		},
		{
			name: "program filter", method: http.MethodGet, path: "/v1/students?program=Computer+Science",
			wantCode: http.StatusOK, wantData: marshalList(t, amani),
		},
		{
			name: "Retrieve", method: http.MethodGet, path: "/v1/students/" + amani.ID,
			wantCode: http.StatusOK, wantData: marshalObj(t, amani),
		},
		{
			name: "Retrieve unknown", method: http.MethodGet, path: "/v1/students/0e90c844-1bb7-4c8b-b0a7-b5c1263bd566",
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: student.ErrNotFound.Error()}),
		},
		{
			name: "Create", method: http.MethodPost, path: "/v1/students",
			body:     marshalObj(t, student.NewStudent{Name: "Baraka Ilunga", Email: "baraka@test.cd"}),
			wantCode: http.StatusCreated,
		},
		{
			name: "Create duplicate email", method: http.MethodPost, path: "/v1/students",
			body:     marshalObj(t, student.NewStudent{Name: "Imposter", Email: "amani@test.cd"}),
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"email": student.ErrEmailExists.Error()}),
		},
		{
			name: "Create invalid email", method: http.MethodPost, path: "/v1/students",
			body:     marshalObj(t, student.NewStudent{Name: "Typo", Email: "not-an-email"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "Delete", method: http.MethodDelete, path: "/v1/students/" + zawadi.ID,
			wantCode: http.StatusNoContent,
		},
		{
			name: "Delete unknown", method: http.MethodDelete, path: "/v1/students/" + zawadi.ID,
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: student.ErrNotFound.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_update(t *testing.T) {
	app := newTestApp(t)

	std := createStudent(t, app, "Neema Mbuyi", "neema@test.cd", "Mathematics")
	other := createStudent(t, app, "Other", "other@test.cd", "")

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		body := marshalObj(t, student.UpdateStudent{Program: "Physics"})
		req, rec := newRequest(http.MethodPut, "/v1/students/"+std.ID, body)
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got student.Student
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Neema Mbuyi", got.Name)
		assert.Equal(t, "neema@test.cd", got.Email)
		assert.Equal(t, "Physics", got.Program.String)
	})

	t.Run("update to taken email rejected", func(t *testing.T) {
		body := marshalObj(t, student.UpdateStudent{Email: other.Email})
		req, rec := newRequest(http.MethodPut, "/v1/students/"+std.ID, body)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})
}
