package commands

const (
	replyUnauthorized     = "🚨 Unauthorized access attempt detected!"
	replyAdminCheckFailed = "⚠️ Could not verify administrator rights, please try again later."

	replySessionStarted = "🎉 Welcome to the new session! 🎉\n\n" +
		"Please share your link to get started! 😎\n" +
		"We'll track your activity and handle the rest! 🚀"

	replyNoLinksYet       = "📭 No users have shared links yet!"
	replyNoMultipleLinks  = "No users have shared multiple links yet."
	replyEveryoneSafe     = "🌟 Everyone is playing nice and staying safe! 🌟"
	replyNoUsers          = "No users found!"
	replyCleared          = "✅ Everything's cleared!"
	replyTrackingStarted  = "🎉 Ad tracking is live! Watching 'ad', 'done' and 'all done' like a hawk. 👀 Let's make it count!"
	replyTrackingStopped  = "Ad tracking has been stopped!"
	replyNoAdCompleted    = "❌ No users have completed the task"
	replyNoUnsafeToMute   = "No users in the unsafe list to mute."
	replyNoneMuted        = "❌ No users were muted."
	replyInvalidUsername  = "Invalid username"
	replyInvalidDuration  = "Invalid duration. Use a format like 30s, 5m (minutes), 2h (hours) or 1d (days)."
	replyNeedRestrictions = "I need 'Ban users' admin rights to restrict members."
	replyMuteFailed       = "Failed to mute user, please check my permissions and try again."
	replyUnmuteFailed     = "Failed to unmute user, please check my permissions and try again."
	failureReason         = "restriction request was rejected"

	usageMuteUser   = "Usage: /muteuser @username duration (e.g., /muteuser @username 5h)"
	usageUnmuteUser = "Usage: /unmuteuser @username (e.g., /unmuteuser @username)"
	usageMuteAll    = "Usage: /muteall duration (e.g., /muteall 5h)"

	unknownHandle = "Unknown"
)

// DefaultRules is sent by /rules when no rules text is configured.
const DefaultRules = `✨ ILLUMINATI-LIKE GC ✨

RULES & REGULATIONS ⚠️

1) Each member is required to post 1 tweet per day.

2) When sharing links, remove everything after the "?" in the URL.

3) Interact with all posts on the TL account during each session.

4) The TL (Timeline) will be updated after every session.
   - Ensure all engagements are completed before the deadline.

5) After completing engagements, send an "ad" message in the group to confirm.

6) All activities must be completed within 1 hour and 40 minutes of the TL update.
   - Missed deadlines will result in being placed on the unsafe list.

7) Every member must like all posts on the TL.
   - Skipping even one post will lead to penalties.`
