package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTranscript = `Course Title: Building Toward Computer Use with Anthropic
Course Link: https://example.com/courses/computer-use
Course Instructor: Colt Steele

Lesson 0: Introduction
Lesson Link: https://example.com/courses/computer-use/lesson/0
Welcome to the course. This lesson introduces the main ideas.

Lesson 1: Working With The API
The API accepts requests. Responses stream back to the caller.

Lesson 2: Multimodal Requests
Lesson Link: https://example.com/courses/computer-use/lesson/2
Images ride alongside text in a single request.`

func TestParseCourseDocument(t *testing.T) {
	doc := parseCourseDocument(sampleTranscript, "fallback.txt")

	assert.Equal(t, "Building Toward Computer Use with Anthropic", doc.course.Title)
	assert.Equal(t, "https://example.com/courses/computer-use", doc.course.CourseLink)
	assert.Equal(t, "Colt Steele", doc.course.Instructor)

	require.Len(t, doc.lessons, 3)
	require.Len(t, doc.course.Lessons, 3)

	assert.Equal(t, 0, doc.lessons[0].number)
	assert.Equal(t, "Introduction", doc.lessons[0].title)
	assert.Equal(t, "https://example.com/courses/computer-use/lesson/0", doc.lessons[0].link)
	assert.Equal(t, "Welcome to the course. This lesson introduces the main ideas.", doc.lessons[0].body)

	assert.Equal(t, 1, doc.lessons[1].number)
	assert.Equal(t, "Working With The API", doc.lessons[1].title)
	assert.Empty(t, doc.lessons[1].link, "lesson without a link line")

	assert.Equal(t, 2, doc.lessons[2].number)
	assert.Equal(t, "https://example.com/courses/computer-use/lesson/2", doc.course.Lessons[2].LessonLink)

	assert.Empty(t, doc.body, "lesson documents have no residual body")
}

func TestParseCourseDocument_HeadersCaseInsensitive(t *testing.T) {
	content := "course title: Lowercase Headers\ncourse link: https://example.com/lc\ncourse instructor: Someone\n\nlesson 1: Only Lesson\nBody text here."

	doc := parseCourseDocument(content, "fallback.txt")

	assert.Equal(t, "Lowercase Headers", doc.course.Title)
	assert.Equal(t, "https://example.com/lc", doc.course.CourseLink)
	assert.Equal(t, "Someone", doc.course.Instructor)
	require.Len(t, doc.lessons, 1)
	assert.Equal(t, 1, doc.lessons[0].number)
}

func TestParseCourseDocument_NoHeader(t *testing.T) {
	content := "Just some notes.\nMore notes on a second line."

	doc := parseCourseDocument(content, "notes.txt")

	assert.Equal(t, "Just some notes.", doc.course.Title, "first line names the course when no header exists")
	assert.Empty(t, doc.lessons)
	assert.Equal(t, "More notes on a second line.", doc.body)
}

func TestParseCourseDocument_StartsAtLessonMarker(t *testing.T) {
	content := "Lesson 0: Straight In\nNo header block at all."

	doc := parseCourseDocument(content, "raw.txt")

	assert.Equal(t, "raw.txt", doc.course.Title, "file name is the fallback title")
	require.Len(t, doc.lessons, 1)
	assert.Equal(t, "Straight In", doc.lessons[0].title)
	assert.Equal(t, "No header block at all.", doc.lessons[0].body)
}

func TestParseCourseDocument_EmptyLessonDropped(t *testing.T) {
	content := "Course Title: Sparse Course\n\nLesson 0: Empty One\nLesson 1: Has Content\nActual text."

	doc := parseCourseDocument(content, "fallback.txt")

	require.Len(t, doc.lessons, 1, "lessons with no body are dropped")
	assert.Equal(t, 1, doc.lessons[0].number)
	assert.Equal(t, "Actual text.", doc.lessons[0].body)
}

func TestParseCourseDocument_MarkerMustStartLine(t *testing.T) {
	content := "Course Title: Marker Course\n\nLesson 0: Real Lesson\nWe will revisit this in Lesson 4: advanced topics.\nMore body."

	doc := parseCourseDocument(content, "fallback.txt")

	require.Len(t, doc.lessons, 1)
	assert.Contains(t, doc.lessons[0].body, "Lesson 4: advanced topics", "inline mentions stay in the body")
}

func TestParseCourseDocument_TitleWithoutPrefix(t *testing.T) {
	content := "Plain First Line Course\nCourse Link: https://example.com/plain\n\nLesson 0: Intro\nText."

	doc := parseCourseDocument(content, "fallback.txt")

	assert.Equal(t, "Plain First Line Course", doc.course.Title)
	assert.Equal(t, "https://example.com/plain", doc.course.CourseLink)
}
