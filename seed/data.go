package seed

import (
	"github.com/cppla/eduquest/gamification"
	"github.com/cppla/eduquest/models"
)

// DemoPassword is shared by every demo account.
const DemoPassword = "password123"

type demoUser struct {
	username      string
	email         string
	firstName     string
	lastName      string
	role          string
	bio           string
	learningStyle string
	points        int
	streakDays    int
	badges        []gamification.Badge
}

var demoUsers = []demoUser{
	{"alex_star", "alex@example.com", "Alex", "Star", models.RoleStudent,
		"Passionate about web development and AI", "visual", 2850, 15,
		[]gamification.Badge{gamification.FirstSteps, gamification.WeekWarrior, gamification.CourseCompleted, gamification.PerfectScore}},
	{"sarah_coding", "sarah@example.com", "Sarah", "Johnson", models.RoleStudent,
		"Full-stack developer and lifelong learner", "kinesthetic", 2450, 8,
		[]gamification.Badge{gamification.FirstSteps, gamification.WeekWarrior, gamification.CourseCompleted}},
	{"mike_tech", "mike@example.com", "Michael", "Chen", models.RoleStudent,
		"Software engineering student", "reading", 2100, 12,
		[]gamification.Badge{gamification.FirstSteps, gamification.PerfectScore}},
	{"emma_learn", "emma@example.com", "Emma", "Wilson", models.RoleStudent,
		"Data science enthusiast", "visual", 1950, 5,
		[]gamification.Badge{gamification.FirstSteps, gamification.WeekWarrior}},
	{"david_code", "david@example.com", "David", "Brown", models.RoleStudent,
		"Mobile app developer", "auditory", 1750, 3,
		[]gamification.Badge{gamification.FirstSteps, gamification.CourseCompleted}},
	{"lisa_dev", "lisa@example.com", "Lisa", "Davis", models.RoleStudent,
		"Frontend developer and UI/UX designer", "visual", 1600, 7,
		[]gamification.Badge{gamification.FirstSteps, gamification.PerfectScore}},
	{"john_instructor", "john@example.com", "John", "Smith", models.RoleInstructor,
		"Senior Software Engineer with 10 years experience", "reading", 500, 1,
		[]gamification.Badge{gamification.FirstSteps}},
	{"jane_teacher", "jane@example.com", "Jane", "Williams", models.RoleInstructor,
		"AI and Machine Learning expert", "visual", 300, 2,
		[]gamification.Badge{gamification.FirstSteps}},
	{"eduquest_admin", "admin@example.com", "Platform", "Admin", models.RoleAdmin,
		"Keeps the lights on", "reading", 0, 0, nil},
}

func quiz(question string, correct int, options ...string) models.Quiz {
	return models.Quiz{Question: question, Options: options, CorrectAnswer: correct, Points: 10}
}

func module(order int, title, description, content string, quizzes ...models.Quiz) models.Module {
	return models.Module{
		Title:       title,
		Description: description,
		Content:     content,
		Order:       order,
		Quizzes:     quizzes,
	}
}

func demoCourses() []models.Course {
	return []models.Course{
		{
			Title:       "JavaScript Fundamentals",
			Description: "Learn the basics of JavaScript programming language, including variables, functions, and DOM manipulation.",
			Category:    "Web Development",
			Difficulty:  models.DifficultyBeginner,
			Duration:    12,
			Modules: []models.Module{
				module(1, "Introduction to JavaScript", "Understanding what JavaScript is and its role in web development",
					"<h3>What is JavaScript?</h3><p>A high-level, interpreted language for dynamic and interactive web content.</p>",
					quiz("What year was JavaScript created?", 1, "1993", "1995", "1997", "1999"),
					quiz("Who created JavaScript?", 1, "Tim Berners-Lee", "Brendan Eich", "Douglas Crockford", "John Resig")),
				module(2, "Variables and Data Types", "Learn about JavaScript variables, primitive data types, and how to work with them",
					"<h3>Variables</h3><p>Declare values with <code>let</code>, <code>const</code> or <code>var</code>.</p>",
					quiz("Which keyword is used to declare a constant variable?", 2, "var", "let", "const", "constant"),
					quiz(`What data type is the value "Hello World"?`, 1, "Number", "String", "Boolean", "Object")),
				module(3, "Functions and Scope", "Understanding JavaScript functions, parameters, and variable scope",
					"<h3>Functions</h3><p>Declarations, expressions and arrow functions, plus function and block scope.</p>",
					quiz("Which of the following is the correct syntax for an arrow function?", 1,
						"=> function(x) { return x * 2; }", "const double = x => x * 2;",
						"function => (x) { return x * 2; }", "const double = (x) function { return x * 2; }"),
					quiz("What is the scope of a variable declared with let inside a function?", 1,
						"Global scope", "Function scope", "Block scope", "Module scope")),
				module(4, "DOM Manipulation", "Learn how to interact with HTML elements using JavaScript",
					"<h3>The DOM</h3><p>Select elements and change their content and attributes.</p>",
					quiz("Which method is used to select an element by its ID?", 1,
						"document.querySelector()", "document.getElementById()", "document.getElementsByClassName()", "document.select()"),
					quiz("Which property is used to change the text content of an element?", 1,
						"innerHTML", "textContent", "innerText", "content")),
			},
		},
		{
			Title:       "React.js Complete Guide",
			Description: "Master React.js from basics to advanced concepts including hooks, state management, and modern React patterns.",
			Category:    "Web Development",
			Difficulty:  models.DifficultyIntermediate,
			Duration:    20,
			Modules: []models.Module{
				module(1, "Introduction to React", "Understanding React and its core concepts",
					"<h3>What is React?</h3><p>A library for building user interfaces from components.</p>",
					quiz("What is JSX?", 1, "A JavaScript framework", "A syntax extension for JavaScript", "A CSS preprocessor", "A database query language"),
					quiz("What is the Virtual DOM?", 1, "A real DOM element", "A JavaScript representation of the real DOM", "A CSS framework", "A database")),
				module(2, "Components and Props", "Learn how to create and use React components with props",
					"<h3>Components</h3><p>Props pass read-only data from parent to child.</p>",
					quiz("How do you pass data to a React component?", 1, "Through state", "Through props", "Through context", "Through refs"),
					quiz("What is the difference between functional and class components?", 1,
						"No difference", "Functional components cannot use state", "Class components are deprecated", "Functional components are faster")),
				module(3, "State and Lifecycle", "Understanding component state and lifecycle methods",
					"<h3>State</h3><p>Hooks such as <code>useState</code> and <code>useEffect</code> manage state and side effects.</p>",
					quiz("Which hook is used to manage state in functional components?", 1, "useContext", "useState", "useEffect", "useReducer"),
					quiz("When does useEffect run by default?", 2, "Only on mount", "Only on unmount", "After every render", "Only when state changes")),
			},
		},
		{
			Title:       "Python for Data Science",
			Description: "Learn Python programming with focus on data analysis, visualization, and machine learning basics.",
			Category:    "Data Science",
			Difficulty:  models.DifficultyBeginner,
			Duration:    15,
			Modules: []models.Module{
				module(1, "Python Basics", "Introduction to Python programming language",
					"<h3>Python</h3><p>Readable syntax, dynamic typing and a large standard library.</p>",
					quiz("Which symbol is used for comments in Python?", 2, "//", "/* */", "#", "<!-- -->"),
					quiz("What is the correct way to create a list in Python?", 1, "list = {1, 2, 3}", "list = [1, 2, 3]", "list = (1, 2, 3)", "list = 1, 2, 3")),
				module(2, "Data Structures", "Working with lists, dictionaries, and other data structures",
					"<h3>Collections</h3><p>Lists, tuples, sets and dictionaries.</p>",
					quiz("Which data structure is mutable in Python?", 2, "Tuple", "String", "List", "Integer"),
					quiz("How do you access a value in a dictionary?", 2, "dict[key]", "dict.get(key)", "Both A and B", "dict(key)")),
				module(3, "NumPy and Pandas", "Introduction to NumPy arrays and Pandas DataFrames",
					"<h3>Analysis libraries</h3><p>NumPy arrays for numerics, Pandas DataFrames for tables.</p>",
					quiz("What is the main data structure in Pandas?", 1, "Array", "DataFrame", "List", "Dictionary"),
					quiz("Which library is primarily used for numerical operations in Python?", 2, "Pandas", "Matplotlib", "NumPy", "Scikit-learn")),
			},
		},
		{
			Title:       "Machine Learning Fundamentals",
			Description: "Introduction to machine learning concepts, algorithms, and practical applications using Python.",
			Category:    "Artificial Intelligence",
			Difficulty:  models.DifficultyAdvanced,
			Duration:    25,
			Modules: []models.Module{
				module(1, "What is Machine Learning?", "Understanding the basics of machine learning and its applications",
					"<h3>Learning from data</h3><p>Supervised, unsupervised and reinforcement learning.</p>",
					quiz("Which type of machine learning uses labeled data?", 1,
						"Unsupervised Learning", "Supervised Learning", "Reinforcement Learning", "Deep Learning"),
					quiz("What is the first step in the machine learning process?", 1,
						"Model training", "Data collection", "Model evaluation", "Deployment")),
				module(2, "Supervised Learning Algorithms", "Learn about classification and regression algorithms",
					"<h3>Classification and regression</h3><p>Predict categories or continuous values from labeled examples.</p>",
					quiz("Which algorithm is best for binary classification?", 1, "Linear Regression", "Logistic Regression", "K-Means", "PCA"),
					quiz("What is the main goal of regression algorithms?", 1,
						"Classify data into categories", "Predict continuous values", "Cluster similar data", "Reduce dimensionality")),
			},
		},
		{
			Title:       "Web Design with CSS",
			Description: "Master CSS styling, layouts, animations, and responsive design principles.",
			Category:    "Web Development",
			Difficulty:  models.DifficultyBeginner,
			Duration:    10,
			Modules: []models.Module{
				module(1, "CSS Fundamentals", "Learn the basics of CSS styling and selectors",
					"<h3>Selectors</h3><p>Target elements by type, class or id and apply declarations.</p>",
					quiz("Which selector targets elements with a specific class?", 1, "#class-name", ".class-name", "class-name", "element.class-name"),
					quiz("What does CSS stand for?", 2, "Computer Style Sheets", "Creative Style Sheets", "Cascading Style Sheets", "Colorful Style Sheets")),
				module(2, "Layouts and Positioning", "Understanding CSS layout techniques and positioning",
					"<h3>Layout</h3><p>Flexbox, grid and positioning.</p>",
					quiz("Which display value is used for flexbox layouts?", 0, "flex", "flexbox", "flexible", "flex-container"),
					quiz("What property is used to control the main axis alignment in flexbox?", 1,
						"align-items", "justify-content", "align-content", "flex-direction")),
			},
		},
	}
}

func defaultSurveys() []models.Survey {
	return []models.Survey{
		{
			Title:          "Pre-Course Assessment",
			Description:    "Help us understand your learning goals and current knowledge level",
			Type:           "pre-course",
			TargetAudience: models.AudienceStudents,
			Questions: []models.SurveyQuestion{
				{Question: "How would you rate your current knowledge of this subject?", Type: "likert",
					Options: []string{"Very Poor", "Poor", "Fair", "Good", "Excellent"}},
				{Question: "What is your primary learning goal for this course?", Type: "text"},
				{Question: "How motivated are you to complete this course?", Type: "rating"},
			},
		},
		{
			Title:          "Post-Course Evaluation",
			Description:    "Share your experience and help us improve",
			Type:           "post-course",
			TargetAudience: models.AudienceStudents,
			Questions: []models.SurveyQuestion{
				{Question: "How would you rate the overall quality of this course?", Type: "rating"},
				{Question: "How much did the gamification elements (points, badges, leaderboard) motivate you?", Type: "likert",
					Options: []string{"Not at all", "Slightly", "Moderately", "Very much", "Extremely"}},
				{Question: "Which gamification feature did you find most engaging?", Type: "multiple-choice",
					Options: []string{"Points system", "Badges", "Leaderboard", "Progress tracking", "Streaks"}},
				{Question: "How likely are you to recommend this course to others?", Type: "rating"},
				{Question: "What improvements would you suggest?", Type: "text"},
			},
		},
		{
			Title:          "Platform User Experience Survey",
			Description:    "Help us improve the EduQuest platform",
			Type:           "satisfaction",
			TargetAudience: models.AudienceAll,
			Questions: []models.SurveyQuestion{
				{Question: "How easy is it to navigate the platform?", Type: "likert",
					Options: []string{"Very Difficult", "Difficult", "Neutral", "Easy", "Very Easy"}},
				{Question: "How satisfied are you with the quiz experience?", Type: "rating"},
				{Question: "How well does the platform meet your learning needs?", Type: "rating"},
				{Question: "What features would you like to see added?", Type: "text"},
			},
		},
	}
}
