package constants

// ContextKeyUserID is the gin context key holding the authenticated user's ID.
const ContextKeyUserID = "user_id"

// ContextKeyUserEmail is the gin context key holding the authenticated user's email.
const ContextKeyUserEmail = "user_email"

// Slot generation stride in minutes.
const SlotIntervalMinutes = 30

// Default category color used when the client does not pick one.
const DefaultCategoryColor = "#007AFF"

// Maximum number of alternative slots returned by schedule suggestions.
const MaxAlternativeSlots = 3
