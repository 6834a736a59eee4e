package usecase

import "quotedesk/pkg"

var (
	ErrEstimateNotFound      = pkg.NewDomainErrorSimple(pkg.KindNotFound, "ESTIMATE_NOT_FOUND", "estimate not found")
	ErrEstimateAlreadyExists = pkg.NewDomainErrorSimple(pkg.KindDuplicate, "ESTIMATE_ALREADY_EXISTS", "estimate identifier already in use")
	ErrInvalidEstimateID     = pkg.NewDomainErrorSimple(pkg.KindValidation, "INVALID_ESTIMATE_ID", "invalid estimate id")
	ErrInvalidIssueDate      = pkg.NewDomainErrorSimple(pkg.KindValidation, "INVALID_ISSUE_DATE", "issue date is required")
	ErrCustomerRequired      = pkg.NewDomainErrorSimple(pkg.KindValidation, "CUSTOMER_REQUIRED", "a customer must be selected")
	ErrProjectNameRequired   = pkg.NewDomainErrorSimple(pkg.KindValidation, "PROJECT_NAME_REQUIRED", "project name is required")
	ErrNoBillableItems       = pkg.NewDomainErrorSimple(pkg.KindValidation, "NO_BILLABLE_ITEMS", "at least one billable line item is required")
	ErrInvalidIssuer         = pkg.NewDomainErrorSimple(pkg.KindValidation, "INVALID_ISSUER", "issuer is not on the roster")
	ErrInvalidStatus         = pkg.NewDomainErrorSimple(pkg.KindValidation, "INVALID_STATUS", "invalid estimate status")
	ErrStatusTransition      = pkg.NewDomainErrorSimple(pkg.KindValidation, "INVALID_STATUS_TRANSITION", "status transition not allowed")
	ErrConfirmationPending   = pkg.NewDomainErrorSimple(pkg.KindValidation, "CONFIRMATION_PENDING", "an identifier change is waiting for confirmation")
	ErrNothingToConfirm      = pkg.NewDomainErrorSimple(pkg.KindValidation, "NOTHING_TO_CONFIRM", "no identifier change is pending")
	ErrCorruptEstimate       = pkg.NewDomainErrorSimple(pkg.KindCorruptRecord, "CORRUPT_ESTIMATE", "stored estimate could not be decoded")

	ErrCustomerNotFound      = pkg.NewDomainErrorSimple(pkg.KindNotFound, "CUSTOMER_NOT_FOUND", "customer not found")
	ErrCustomerAlreadyExists = pkg.NewDomainErrorSimple(pkg.KindDuplicate, "CUSTOMER_ALREADY_EXISTS", "a customer with the same company, department and contact exists")
	ErrCorruptCatalog        = pkg.NewDomainErrorSimple(pkg.KindCorruptRecord, "CORRUPT_CATALOG", "catalog file could not be decoded")

	ErrProductNotFound      = pkg.NewDomainErrorSimple(pkg.KindNotFound, "PRODUCT_NOT_FOUND", "product not found")
	ErrProductAlreadyExists = pkg.NewDomainErrorSimple(pkg.KindDuplicate, "PRODUCT_ALREADY_EXISTS", "a product with the same name exists")
	ErrInvalidMove          = pkg.NewDomainErrorSimple(pkg.KindValidation, "INVALID_MOVE", "item cannot be moved further")
)
