package bank

import "github.com/abhisek/studybuddy/internal/topic"

// Default returns the compiled-in question bank: three questions per
// (topic, difficulty) cell. The set is exercised by tests, so a
// validation failure here means the source literals were edited badly.
func Default() *Bank {
	b, err := New(defaultQuestions)
	if err != nil {
		panic(err)
	}
	return b
}

var defaultQuestions = []Question{
	// Variables
	{
		ID: "var-beg-1", Topic: topic.TopicVariables, Difficulty: topic.Beginner,
		Prompt: "Which symbol assigns a value to a variable in Python?",
		Answer: "=",
		Accept: []string{"equals", "equals sign", "the equals sign"},
		Hints:  []string{"It is a single character.", "It is the symbol in x = 5."},
	},
	{
		ID: "var-beg-2", Topic: topic.TopicVariables, Difficulty: topic.Beginner,
		Prompt: "What value does x hold after running: x = 3?",
		Answer: "3",
		Hints:  []string{"Read the right-hand side of the assignment."},
	},
	{
		ID: "var-beg-3", Topic: topic.TopicVariables, Difficulty: topic.Beginner,
		Prompt:  "Which of these is a valid Python variable name?",
		Answer:  "total_sum",
		Choices: []string{"2nd_place", "my-score", "total_sum", "class"},
		Hints:   []string{"Names cannot start with a digit.", "Hyphens and reserved words are not allowed."},
	},
	{
		ID: "var-int-1", Topic: topic.TopicVariables, Difficulty: topic.Intermediate,
		Prompt: "After x = 10, then y = x, then x = 20, what value does y hold?",
		Answer: "10",
		Hints:  []string{"Assignment copies the value at the moment it runs.", "Rebinding x later does not touch y."},
	},
	{
		ID: "var-int-2", Topic: topic.TopicVariables, Difficulty: topic.Intermediate,
		Prompt: "Which built-in function tells you the type of a variable?",
		Answer: "type",
		Accept: []string{"type()"},
		Hints:  []string{"Its name is four letters long.", "You call it like t???(x)."},
	},
	{
		ID: "var-int-3", Topic: topic.TopicVariables, Difficulty: topic.Intermediate,
		Prompt:  "What happens when you read a variable that was never assigned?",
		Answer:  "Python raises a NameError",
		Choices: []string{"It evaluates to None", "It evaluates to 0", "Python raises a NameError", "Python creates it silently"},
		Hints:   []string{"Python does not create variables on read."},
	},
	{
		ID: "var-adv-1", Topic: topic.TopicVariables, Difficulty: topic.Advanced,
		Prompt: "After a = [1, 2] and b = a, does b.append(3) change what a holds? (yes/no)",
		Answer: "yes",
		Hints:  []string{"Assignment binds a second name to the same object.", "Lists are mutable."},
	},
	{
		ID: "var-adv-2", Topic: topic.TopicVariables, Difficulty: topic.Advanced,
		Prompt: "Which keyword lets a function assign to a variable defined at module level?",
		Answer: "global",
		Hints:  []string{"Without it, assignment creates a new local name."},
	},
	{
		ID: "var-adv-3", Topic: topic.TopicVariables, Difficulty: topic.Advanced,
		Prompt: "What does this print? x, y = 1, 2; x, y = y, x; print(x)",
		Answer: "2",
		Hints:  []string{"Tuple unpacking swaps both names in one step."},
	},

	// Data types
	{
		ID: "dt-beg-1", Topic: topic.TopicDataTypes, Difficulty: topic.Beginner,
		Prompt: "What type does Python give the value 3.14?",
		Answer: "float",
		Hints:  []string{"It has a decimal point."},
	},
	{
		ID: "dt-beg-2", Topic: topic.TopicDataTypes, Difficulty: topic.Beginner,
		Prompt: "What type is the value True?",
		Answer: "bool",
		Accept: []string{"boolean"},
		Hints:  []string{"The type is named after George Boole."},
	},
	{
		ID: "dt-beg-3", Topic: topic.TopicDataTypes, Difficulty: topic.Beginner,
		Prompt:  "Which of these literals is a string?",
		Answer:  "'42'",
		Choices: []string{"42", "'42'", "42.0", "True"},
		Hints:   []string{"Strings are wrapped in quotes."},
	},
	{
		ID: "dt-int-1", Topic: topic.TopicDataTypes, Difficulty: topic.Intermediate,
		Prompt: "What does int('7') return?",
		Answer: "7",
		Hints:  []string{"int() converts its argument to an integer."},
	},
	{
		ID: "dt-int-2", Topic: topic.TopicDataTypes, Difficulty: topic.Intermediate,
		Prompt: "What is the type of the result of 7 / 2 in Python 3?",
		Answer: "float",
		Hints:  []string{"A single slash always performs true division.", "7 / 2 is 3.5."},
	},
	{
		ID: "dt-int-3", Topic: topic.TopicDataTypes, Difficulty: topic.Intermediate,
		Prompt:  "Which of these types is immutable?",
		Answer:  "tuple",
		Choices: []string{"list", "dict", "tuple", "set"},
		Hints:   []string{"You cannot assign to its elements after creation."},
	},
	{
		ID: "dt-adv-1", Topic: topic.TopicDataTypes, Difficulty: topic.Advanced,
		Prompt: "What does 0.1 + 0.2 == 0.3 evaluate to?",
		Answer: "False",
		Accept: []string{"false"},
		Hints:  []string{"Floats are binary approximations.", "0.1 + 0.2 is 0.30000000000000004."},
	},
	{
		ID: "dt-adv-2", Topic: topic.TopicDataTypes, Difficulty: topic.Advanced,
		Prompt: "Which built-in function converts 255 to the string '0xff'?",
		Answer: "hex",
		Accept: []string{"hex()"},
		Hints:  []string{"Its name matches the base it prints in."},
	},
	{
		ID: "dt-adv-3", Topic: topic.TopicDataTypes, Difficulty: topic.Advanced,
		Prompt: "What does bool('False') evaluate to?",
		Answer: "True",
		Accept: []string{"true"},
		Hints:  []string{"Any non-empty string is truthy.", "The string's content is never parsed."},
	},

	// Control structures
	{
		ID: "ctl-beg-1", Topic: topic.TopicControl, Difficulty: topic.Beginner,
		Prompt: "Which keyword starts a conditional branch in Python?",
		Answer: "if",
		Hints:  []string{"It is two letters long."},
	},
	{
		ID: "ctl-beg-2", Topic: topic.TopicControl, Difficulty: topic.Beginner,
		Prompt: "Which keyword runs a block only when the if condition was false?",
		Answer: "else",
		Hints:  []string{"It pairs with if."},
	},
	{
		ID: "ctl-beg-3", Topic: topic.TopicControl, Difficulty: topic.Beginner,
		Prompt:  "Which loop keeps repeating as long as a condition stays true?",
		Answer:  "while",
		Choices: []string{"for", "while", "repeat", "until"},
		Hints:   []string{"Its name says exactly that."},
	},
	{
		ID: "ctl-int-1", Topic: topic.TopicControl, Difficulty: topic.Intermediate,
		Prompt: "How many times does 'for i in range(3)' run its body?",
		Answer: "3",
		Accept: []string{"three"},
		Hints:  []string{"range(3) yields 0, 1, 2."},
	},
	{
		ID: "ctl-int-2", Topic: topic.TopicControl, Difficulty: topic.Intermediate,
		Prompt: "Which statement skips the rest of the body and starts the next loop iteration?",
		Answer: "continue",
		Hints:  []string{"It does not leave the loop.", "Eight letters."},
	},
	{
		ID: "ctl-int-3", Topic: topic.TopicControl, Difficulty: topic.Intermediate,
		Prompt: "Which keyword chains an extra condition between if and else?",
		Answer: "elif",
		Hints:  []string{"It is a contraction of two other keywords."},
	},
	{
		ID: "ctl-adv-1", Topic: topic.TopicControl, Difficulty: topic.Advanced,
		Prompt:  "When does the else clause attached to a for loop run?",
		Answer:  "when the loop completes without break",
		Choices: []string{"after every iteration", "after a break statement", "when the loop completes without break", "when an exception is raised"},
		Hints:   []string{"It is skipped when the loop is cut short."},
	},
	{
		ID: "ctl-adv-2", Topic: topic.TopicControl, Difficulty: topic.Advanced,
		Prompt: "What value does i hold after this finishes? for i in range(3): pass",
		Answer: "2",
		Hints:  []string{"The loop variable keeps its last value.", "range(3) ends at 2."},
	},
	{
		ID: "ctl-adv-3", Topic: topic.TopicControl, Difficulty: topic.Advanced,
		Prompt: "What kind of loop does 'while True:' start?",
		Answer: "an infinite loop",
		Accept: []string{"infinite loop", "infinite", "endless loop"},
		Hints:  []string{"The condition never becomes false."},
	},

	// Functions
	{
		ID: "fn-beg-1", Topic: topic.TopicFunctions, Difficulty: topic.Beginner,
		Prompt: "Which keyword defines a function in Python?",
		Answer: "def",
		Hints:  []string{"It is three letters long."},
	},
	{
		ID: "fn-beg-2", Topic: topic.TopicFunctions, Difficulty: topic.Beginner,
		Prompt: "Which keyword sends a value back to the caller of a function?",
		Answer: "return",
		Hints:  []string{"It also ends the call."},
	},
	{
		ID: "fn-beg-3", Topic: topic.TopicFunctions, Difficulty: topic.Beginner,
		Prompt:  "How do you call a function named greet that takes no arguments?",
		Answer:  "greet()",
		Choices: []string{"call greet", "greet[]", "greet()", "greet{}"},
		Hints:   []string{"Parentheses perform the call."},
	},
	{
		ID: "fn-int-1", Topic: topic.TopicFunctions, Difficulty: topic.Intermediate,
		Prompt: "What does a function return when it has no return statement?",
		Answer: "None",
		Accept: []string{"none"},
		Hints:  []string{"Every call still returns something.", "It is Python's null value."},
	},
	{
		ID: "fn-int-2", Topic: topic.TopicFunctions, Difficulty: topic.Intermediate,
		Prompt: "What are the names inside a function definition's parentheses called?",
		Answer: "parameters",
		Accept: []string{"parameter"},
		Hints:  []string{"Callers pass arguments; definitions declare these."},
	},
	{
		ID: "fn-int-3", Topic: topic.TopicFunctions, Difficulty: topic.Intermediate,
		Prompt: "In a def line, how do you give the parameter n a default value of 1?",
		Answer: "n=1",
		Accept: []string{"n = 1"},
		Hints:  []string{"The default follows an equals sign in the signature."},
	},
	{
		ID: "fn-adv-1", Topic: topic.TopicFunctions, Difficulty: topic.Advanced,
		Prompt: "Which keyword creates an anonymous single-expression function?",
		Answer: "lambda",
		Hints:  []string{"It is a Greek letter."},
	},
	{
		ID: "fn-adv-2", Topic: topic.TopicFunctions, Difficulty: topic.Advanced,
		Prompt: "Inside def f(*args), what type does args have?",
		Answer: "tuple",
		Hints:  []string{"It is immutable.", "Extra positional arguments are packed into it."},
	},
	{
		ID: "fn-adv-3", Topic: topic.TopicFunctions, Difficulty: topic.Advanced,
		Prompt:  "A function that calls itself demonstrates which technique?",
		Answer:  "recursion",
		Choices: []string{"iteration", "recursion", "delegation", "abstraction"},
		Hints:   []string{"Think of the classic definition of factorial."},
	},

	// Lists
	{
		ID: "lst-beg-1", Topic: topic.TopicLists, Difficulty: topic.Beginner,
		Prompt: "What does len([1, 2, 3]) return?",
		Answer: "3",
		Hints:  []string{"len counts the elements."},
	},
	{
		ID: "lst-beg-2", Topic: topic.TopicLists, Difficulty: topic.Beginner,
		Prompt: "Which list method adds an item to the end of a list?",
		Answer: "append",
		Accept: []string{"append()", ".append()"},
		Hints:  []string{"It starts with the letter a.", "my_list.a?????(item)"},
	},
	{
		ID: "lst-beg-3", Topic: topic.TopicLists, Difficulty: topic.Beginner,
		Prompt: "What index does the first element of a list have?",
		Answer: "0",
		Accept: []string{"zero"},
		Hints:  []string{"Python counts from the start, beginning below one."},
	},
	{
		ID: "lst-int-1", Topic: topic.TopicLists, Difficulty: topic.Intermediate,
		Prompt: "What does [1, 2, 3][-1] evaluate to?",
		Answer: "3",
		Hints:  []string{"Negative indexes count from the end."},
	},
	{
		ID: "lst-int-2", Topic: topic.TopicLists, Difficulty: topic.Intermediate,
		Prompt: "For nums = [10, 20, 30, 40], what does nums[1:3] return?",
		Answer: "[20, 30]",
		Accept: []string{"20, 30", "[20,30]", "20 30"},
		Hints:  []string{"Slices include the start index and exclude the stop.", "Start at index 1, stop before index 3."},
	},
	{
		ID: "lst-int-3", Topic: topic.TopicLists, Difficulty: topic.Intermediate,
		Prompt:  "Which list method removes and returns the last element?",
		Answer:  "pop",
		Choices: []string{"remove", "pop", "discard", "cut"},
		Hints:   []string{"Think of taking the top item off a stack."},
	},
	{
		ID: "lst-adv-1", Topic: topic.TopicLists, Difficulty: topic.Advanced,
		Prompt: "What list does [x * 2 for x in range(3)] produce?",
		Answer: "[0, 2, 4]",
		Accept: []string{"0, 2, 4", "[0,2,4]", "0 2 4"},
		Hints:  []string{"It is a comprehension over 0, 1, 2.", "Each element is doubled."},
	},
	{
		ID: "lst-adv-2", Topic: topic.TopicLists, Difficulty: topic.Advanced,
		Prompt: "What does sorted([3, 1, 2], reverse=True) return?",
		Answer: "[3, 2, 1]",
		Accept: []string{"3, 2, 1", "[3,2,1]", "3 2 1"},
		Hints:  []string{"reverse=True sorts descending."},
	},
	{
		ID: "lst-adv-3", Topic: topic.TopicLists, Difficulty: topic.Advanced,
		Prompt: "Does my_list.sort() return the sorted list, or None?",
		Answer: "None",
		Accept: []string{"none"},
		Hints:  []string{"It sorts the list in place.", "In-place methods conventionally return nothing."},
	},
}
