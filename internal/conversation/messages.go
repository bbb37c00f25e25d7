package conversation

import (
	"fmt"
	"strings"

	"github.com/jonathan/talentscout/internal/types"
)

const greetingMessage = `Welcome to TalentScout AI!

I'm your hiring assistant, and I'm here to help streamline your candidacy process.

Here's how I can help:
  - Collect your essential information
  - Understand your technical expertise
  - Generate personalized technical questions

I'll guide you through a brief conversation to understand your background and skills. This should only take a few minutes.

Ready to get started? Let's begin with your name! What should I call you?

Tip: you can type 'exit', 'quit', or 'bye' anytime to end our conversation.`

const contextualFallback = "I understand. Is there anything specific you'd like to know or discuss about the application process?"

// prompts re-emitted when a stage rejects input.
var retryMessages = map[Stage]string{
	StageGreeting:          "I didn't catch your name. What should I call you?",
	StageCollectName:       "I didn't catch your name. What should I call you?",
	StageCollectEmail:      "Hmm, that doesn't look like a valid email address.\n\nPlease provide a valid email address (e.g., yourname@example.com):",
	StageCollectPhone:      "That doesn't appear to be a valid phone number.\n\nPlease provide your phone number (e.g., +1234567890 or 123-456-7890):",
	StageCollectExperience: "I couldn't determine the years of experience from your response.\n\nPlease specify your years of experience (e.g., \"5 years\" or \"2.5\"):",
	StageCollectPosition:   "Please tell me which position(s) you're interested in:",
	StageCollectLocation:   "Please tell me your current location (City, State/Country):",
	StageCollectTechStack:  "I couldn't identify any technologies from your response.\n\nPlease list your tech stack separated by commas (e.g., Python, React, PostgreSQL):",
}

func nameAccepted(name string) string {
	return fmt.Sprintf(`Great to meet you, %s!

Now, I'll need your email address to keep you updated about your application status and next steps.

Please provide your email address:`, name)
}

func emailAccepted(email string) string {
	return fmt.Sprintf(`Perfect! I've noted your email as %s.

Next, I'll need your contact number.

Please provide your phone number:`, email)
}

func phoneAccepted(phone string) string {
	return fmt.Sprintf(`Got it! Phone number recorded: %s.

Now, let's talk about your experience.

How many years of professional experience do you have?
(You can answer like "5 years", "2.5 years", or just "3")`, phone)
}

func experienceAccepted(years string) string {
	return fmt.Sprintf(`Excellent! %s years of experience noted.

What position(s) are you interested in?
(e.g., Software Engineer, Data Scientist, Full Stack Developer)`, years)
}

func positionAccepted(position string) string {
	return fmt.Sprintf(`Perfect! %s - that's noted!

What's your current location?
(City, State/Country - this helps us match you with relevant opportunities)`, position)
}

func locationAccepted(location string) string {
	return fmt.Sprintf(`Great! Location recorded as %s.

Now for the important part - your technical expertise!

Please list your tech stack:
This should include programming languages, frameworks, databases, and tools you're proficient in.

Example: Python, React, Node.js, MongoDB, Docker, AWS`, location)
}

func techStackAccepted(techs []string, questions string) string {
	bold := make([]string, len(techs))
	for i, tech := range techs {
		bold[i] = "**" + tech + "**"
	}
	return fmt.Sprintf(`Awesome tech stack! I've recorded:

%s

Now, let me generate some technical questions to assess your expertise in these technologies.

%s`, strings.Join(bold, ", "), questions)
}

// techPreview names up to three technologies, marking the rest with "...".
func techPreview(techs []string) string {
	if len(techs) <= 3 {
		return strings.Join(techs, ", ")
	}
	return strings.Join(techs[:3], ", ") + "..."
}

func generatedQuestionsBlock(techs []string, questions string) string {
	return fmt.Sprintf(`Technical Assessment Questions

Based on your tech stack (%s), here are some questions to assess your expertise:

%s

---

Instructions:
  - Take your time to think through each question
  - Feel free to ask for clarification if needed
  - You can type your answers, and I'll note them down

Would you like to answer these questions now, or would you prefer to schedule a technical interview later?`, techPreview(techs), questions)
}

func fallbackQuestionsBlock(techs []string, questions []string) string {
	return fmt.Sprintf(`Technical Assessment Questions

Based on your tech stack (%s), here are some questions:

%s

Would you like to answer these now or schedule a technical interview?`, techPreview(techs), strings.Join(questions, "\n"))
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

// summaryMessage lists every collected field once the technical answers are in.
func summaryMessage(r *types.CandidateRecord) string {
	return fmt.Sprintf(`Thank you for your response!

I've recorded your answers. Our technical team will review them along with your profile.

Summary of your application:

  Name:       %s
  Email:      %s
  Phone:      %s
  Experience: %s
  Position:   %s
  Location:   %s
  Tech Stack: %s

Is there anything you'd like to add? (Type 'exit' to finish, or share additional information)`,
		orNA(r.Name), orNA(r.Email), orNA(r.Phone), orNA(r.Experience),
		orNA(r.Position), orNA(r.Location), strings.Join(r.TechStack, ", "))
}

// FarewellMessage thanks the candidate by name and points at their email.
func FarewellMessage(r *types.CandidateRecord) string {
	name := r.Name
	if name == "" {
		name = "there"
	}
	email := r.Email
	if email == "" {
		email = "registered email"
	}

	return fmt.Sprintf(`Thank you, %s!

It was great talking with you! I've collected the information for your application.

Next Steps:
  1. Our recruitment team will review your profile within 2-3 business days
  2. You'll receive an email or phone call if your profile matches our requirements
  3. Selected candidates will be invited for technical interviews

Keep an eye on your email (%s) for updates!

Thank you for choosing TalentScout. Best of luck with your job search!`, name, email)
}

// GreetingMessage is shown before the first turn.
func GreetingMessage() string {
	return greetingMessage
}
