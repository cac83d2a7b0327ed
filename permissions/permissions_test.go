package permissions

import (
	"testing"

	"greenacademy/models"
	courseModels "greenacademy/models/course"

	"github.com/stretchr/testify/assert"
)

var (
	admin   = &models.User{ID: 1, IsStaff: true, Group: models.GroupAdmins}
	teacher = &models.User{ID: 2, Group: models.GroupInstructors}
	student = &models.User{ID: 3, Group: models.GroupStudents}
)

func TestCanListUsers(t *testing.T) {
	assert.True(t, CanListUsers(admin))
	assert.False(t, CanListUsers(teacher))
	assert.False(t, CanListUsers(student))
	assert.False(t, CanListUsers(nil))
}

func TestCanAccessUser(t *testing.T) {
	assert.True(t, CanAccessUser(admin, student.ID), "staff reach any user")
	assert.True(t, CanAccessUser(student, student.ID), "owner reaches self")
	assert.False(t, CanAccessUser(student, teacher.ID))
	assert.False(t, CanAccessUser(nil, student.ID))
}

func TestCanManageCourses(t *testing.T) {
	assert.True(t, CanManageCourses(admin))
	// The instructor reference grants nothing: course writes stay admin only.
	assert.False(t, CanManageCourses(teacher))
	assert.False(t, CanManageCourses(student))
}

func TestCanManageContent(t *testing.T) {
	assert.True(t, CanManageContent(admin))
	assert.True(t, CanManageContent(teacher))
	assert.True(t, CanManageContent(student), "any authenticated actor may touch modules and activities")
	assert.False(t, CanManageContent(nil))
}

func TestCanAccessEnrollment(t *testing.T) {
	enrollment := &courseModels.Enrollment{ID: 10, UserID: student.ID, CourseID: 5}

	assert.True(t, CanAccessEnrollment(admin, enrollment))
	assert.True(t, CanAccessEnrollment(student, enrollment))
	assert.False(t, CanAccessEnrollment(teacher, enrollment))
	assert.False(t, CanAccessEnrollment(nil, enrollment))
	assert.False(t, CanAccessEnrollment(student, nil))
}

func TestCanListUserEnrollments(t *testing.T) {
	assert.True(t, CanListUserEnrollments(admin, student.ID))
	assert.True(t, CanListUserEnrollments(student, student.ID))
	assert.False(t, CanListUserEnrollments(student, teacher.ID))
}

func TestEnrollmentOwner(t *testing.T) {
	// Staff may enroll anyone
	assert.Equal(t, student.ID, EnrollmentOwner(admin, student.ID))
	assert.Equal(t, admin.ID, EnrollmentOwner(admin, 0))

	// Non-staff actors always enroll themselves, silently
	assert.Equal(t, student.ID, EnrollmentOwner(student, teacher.ID))
	assert.Equal(t, student.ID, EnrollmentOwner(student, 0))
	assert.Equal(t, student.ID, EnrollmentOwner(student, student.ID))
}
