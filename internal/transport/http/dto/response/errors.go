package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status:  "error",
		Error:   "authentication_failed",
		Details: "Invalid email or password",
	}

	ErrAuthenticationRequired = ErrorResponse{
		Status:  "error",
		Error:   "authentication_required",
		Details: "Please log in to continue",
	}

	ErrUserAlreadyExists = ErrorResponse{
		Status:  "error",
		Error:   "user_already_exists",
		Details: "User already exists with this email",
	}

	ErrInsufficientCredits = ErrorResponse{
		Status:  "error",
		Error:   "insufficient_credits",
		Details: "Not enough credits for the selected styles",
	}

	ErrGenerationInProgress = ErrorResponse{
		Status:  "error",
		Error:   "generation_in_progress",
		Details: "A generation is already running",
	}

	ErrGenerationFailed = ErrorResponse{
		Status:  "error",
		Error:   "generation_failed",
		Details: "Generation failed, your credits have been refunded",
	}

	ErrCapabilityUnavailable = ErrorResponse{
		Status:  "error",
		Error:   "generation_unavailable",
		Details: "Image generation is not configured",
	}

	ErrImageNotFound = ErrorResponse{
		Status:  "error",
		Error:   "image_not_found",
		Details: "Image not found",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   "internal_error",
		Details: "Internal server error",
	}
)
