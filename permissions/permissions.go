// Package permissions answers "can this actor perform this action on this
// resource". The predicates are pure and consulted before any mutation;
// listing goes through the visibility scopes instead.
package permissions

import (
	"greenacademy/models"
	courseModels "greenacademy/models/course"

	"gorm.io/gorm"
)

// CanListUsers: only staff may enumerate the user collection.
func CanListUsers(actor *models.User) bool {
	return actor != nil && actor.IsStaff
}

// CanAccessUser covers retrieve, update and delete on a user record.
func CanAccessUser(actor *models.User, targetID uint) bool {
	if actor == nil {
		return false
	}
	return actor.IsStaff || actor.ID == targetID
}

// CanManageCourses covers create, update and delete on courses. The
// instructor reference grants nothing: a course's own instructor is
// refused here like any other non-staff actor.
func CanManageCourses(actor *models.User) bool {
	return actor != nil && actor.IsStaff
}

// CanManageContent covers create, update and delete on modules and
// activities. Any authenticated actor qualifies; there is no ownership
// check on the content tree.
func CanManageContent(actor *models.User) bool {
	return actor != nil
}

// CanAccessEnrollment covers retrieve, update and delete on an enrollment.
func CanAccessEnrollment(actor *models.User, enrollment *courseModels.Enrollment) bool {
	if actor == nil || enrollment == nil {
		return false
	}
	return actor.IsStaff || actor.ID == enrollment.UserID
}

// CanListUserEnrollments guards the nested per-user enrollment list. A
// refusal here surfaces as not-found, not forbidden, to match the direct
// list route's behavior of hiding other users' rows entirely.
func CanListUserEnrollments(actor *models.User, userID uint) bool {
	if actor == nil {
		return false
	}
	return actor.IsStaff || actor.ID == userID
}

// EnrollmentOwner resolves the user an enrollment will belong to. A
// non-staff actor asking to enroll someone else is silently overridden
// to themselves; this is a policy choice, not a validation failure.
func EnrollmentOwner(actor *models.User, requestedUserID uint) uint {
	if actor.IsStaff && requestedUserID != 0 {
		return requestedUserID
	}
	return actor.ID
}

// VisibleUsers narrows the user collection to what the actor may list:
// staff see everyone, everyone else sees only themselves.
func VisibleUsers(db *gorm.DB, actor *models.User) *gorm.DB {
	if actor.IsStaff {
		return db
	}
	return db.Where("id = ?", actor.ID)
}

// VisibleEnrollments narrows the enrollment collection to what the actor
// may list: staff see all rows, everyone else sees only their own.
func VisibleEnrollments(db *gorm.DB, actor *models.User) *gorm.DB {
	if actor.IsStaff {
		return db
	}
	return db.Where("user_id = ?", actor.ID)
}
