package services

import (
	"github.com/iota-uz/clubs/pkg/serrors"
)

const (
	CodeNoFile          = "IMPORT_NO_FILE"
	CodeNoClub          = "IMPORT_NO_CLUB"
	CodeUnsupportedType = "IMPORT_UNSUPPORTED_TYPE"
	CodeFileTooLarge    = "IMPORT_FILE_TOO_LARGE"
	CodeNoNames         = "IMPORT_NO_NAMES"
	CodeUnreadable      = "IMPORT_UNREADABLE_FILE"
	CodeExtraction      = "IMPORT_EXTRACTION_FAILED"
	CodeClubNotFound    = "CLUB_NOT_FOUND"
	CodeStudentNotFound = "STUDENT_NOT_FOUND"
	CodeNotMember       = "MEMBERSHIP_NOT_FOUND"
	CodeAlreadyMember   = "MEMBERSHIP_ALREADY_ACTIVE"
	CodeCategoryLimit   = "MEMBERSHIP_CATEGORY_CONFLICT"
)

var (
	ErrNoFile          = serrors.NewError(CodeNoFile, "no roster file was uploaded", "Clubs.Import.Errors.NoFile")
	ErrNoClub          = serrors.NewError(CodeNoClub, "no target club was given", "Clubs.Import.Errors.NoClub")
	ErrUnsupportedType = serrors.NewError(CodeUnsupportedType, "roster file type is not supported", "Clubs.Import.Errors.UnsupportedType")
	ErrFileTooLarge    = serrors.NewError(CodeFileTooLarge, "roster file is too large", "Clubs.Import.Errors.FileTooLarge")
	ErrNoNames         = serrors.NewError(CodeNoNames, "no names found", "Clubs.Import.Errors.NoNames")
	ErrUnreadable      = serrors.NewError(CodeUnreadable, "roster file could not be read", "Clubs.Import.Errors.Unreadable")
	ErrExtraction      = serrors.NewError(CodeExtraction, "roster could not be extracted", "Clubs.Import.Errors.Extraction")
	ErrClubNotFound    = serrors.NewError(CodeClubNotFound, "club not found", "Clubs.Errors.ClubNotFound")
	ErrStudentNotFound = serrors.NewError(CodeStudentNotFound, "student not found", "Clubs.Errors.StudentNotFound")
	ErrNotMember       = serrors.NewError(CodeNotMember, "student is not an active member of this club", "Clubs.Members.Errors.NotMember")
	ErrAlreadyMember   = serrors.NewError(CodeAlreadyMember, "student is already an active member of this club", "Clubs.Members.Errors.AlreadyMember")
	ErrCategoryLimit   = serrors.NewError(CodeCategoryLimit, "student has reached the membership limit for this category", "Clubs.Members.Errors.CategoryConflict")
)
