package postback

// Action names embedded in quick-reply payloads. Message builders and step
// handlers must use these shared constants so prompts and dispatch stay in
// lock-step.
const (
	// Step 1: animal type selection
	ActionSelectAnimal = "select_animal"

	// Step 2: photo
	ActionOpenCamera = "open_camera"
	ActionSkipPhoto  = "skip_photo"
	ActionAddPhoto   = "add_photo"

	// Step 2b: image description confirmation
	ActionConfirmDesc = "confirm_desc"
	ActionRejectDesc  = "reject_desc"

	// Step 3c: action category selection
	ActionSelectAction = "select_action"

	// Step 3d: follow-up question answer
	ActionAnswerQuestion = "answer_question"

	// Step 3e: action detail confirmation
	ActionConfirmDetail = "confirm_detail"
	ActionRestartDetail = "restart_detail"

	// Step 4: datetime
	ActionDateTimeNow    = "datetime_now"
	ActionSelectDateTime = "select_datetime"

	// Step 5: landmark selection
	ActionSelectLandmark = "select_landmark"
	ActionSkipLandmark   = "skip_landmark"

	// Step 6: report confirmation
	ActionConfirmReport = "confirm_report"

	// Step 6b: phone number
	ActionRequestPhoneNumber = "request_phone_number"
	ActionSkipPhoneNumber    = "skip_phone_number"

	// global: restart from the beginning
	ActionStartOver = "start_over"
)
