package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ternarybob/lectio/internal/models"
)

func TestCoursesHandler_ReturnsStats(t *testing.T) {
	mockRAG := &mockRAGService{
		analyticsFunc: func(ctx context.Context) models.CourseStats {
			return models.CourseStats{
				TotalCourses: 2,
				CourseTitles: []string{"Course A", "Course B"},
			}
		},
	}

	handler := NewCourseHandler(mockRAG, nil)
	req := httptest.NewRequest("GET", "/api/courses", nil)
	rec := httptest.NewRecorder()
	handler.CoursesHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	response := decodeBody(t, rec)
	if int(response["total_courses"].(float64)) != 2 {
		t.Errorf("Expected total_courses 2, got %v", response["total_courses"])
	}

	titles, ok := response["course_titles"].([]interface{})
	if !ok || len(titles) != 2 {
		t.Fatalf("Expected 2 course titles, got %v", response["course_titles"])
	}
	if titles[0] != "Course A" || titles[1] != "Course B" {
		t.Errorf("Unexpected titles: %v", titles)
	}
}

func TestCoursesHandler_EmptyCatalog(t *testing.T) {
	handler := NewCourseHandler(&mockRAGService{}, nil)
	req := httptest.NewRequest("GET", "/api/courses", nil)
	rec := httptest.NewRecorder()
	handler.CoursesHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	response := decodeBody(t, rec)
	titles, ok := response["course_titles"].([]interface{})
	if !ok {
		t.Fatalf("Expected course_titles to be an array, got %T", response["course_titles"])
	}
	if len(titles) != 0 {
		t.Errorf("Expected no titles, got %d", len(titles))
	}
}

func TestCoursesHandler_MethodNotAllowed(t *testing.T) {
	handler := NewCourseHandler(&mockRAGService{}, nil)
	req := httptest.NewRequest("POST", "/api/courses", nil)
	rec := httptest.NewRecorder()
	handler.CoursesHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rec.Code)
	}
}
