package genai

// quizPrompt asks for the question list as a bare JSON array so the response
// can be parsed without scraping markdown.
const quizPrompt = `Generate 5-10 quiz questions based on the following content. Each question should have 4 multiple-choice options.

IMPORTANT: Return ONLY a JSON array with the following structure, with no markdown formatting, no code blocks, and no additional text:
[
  {
    "id": "unique-id",
    "question": "question text",
    "type": "multiple-choice",
    "options": ["option1", "option2", "option3", "option4"],
    "correctAnswer": "correct option"
  }
]

Content: %s`

const evaluatePrompt = `Evaluate the user's quiz answers below. For each question, decide whether the user's answer matches the correct answer, and for incorrect or missing answers write one short remediation sentence explaining the right answer.

IMPORTANT: Return ONLY a JSON object with the following structure, with no markdown formatting, no code blocks, and no additional text:
{
  "correctAnswers": 0,
  "totalQuestions": 0,
  "percentage": 0,
  "questionFeedback": [
    {
      "question": "question text",
      "correct": true,
      "feedback": "remediation text for incorrect answers"
    }
  ]
}

"questionFeedback" must contain one entry per question, in the same order as the questions. "percentage" is correctAnswers/totalQuestions rounded to a whole number. A question with no recorded answer counts as incorrect.

Questions: %s

User answers: %s`

const cleanContentPrompt = `Clean and structure the following web content, removing any irrelevant information and formatting it in a clear, readable way. Focus on the main content and remove any navigation, headers, footers, or other UI elements.

Content: %s`
