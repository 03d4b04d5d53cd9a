package game

var round1Catalog = []Question{
	{ID: "r1-1", Difficulty: Easy, Points: 10, Content: "Which keyword declares a function in Python?", Answer: "def"},
	{ID: "r1-2", Difficulty: Easy, Points: 10, Content: "What type does input() return?", Answer: "str"},
	{ID: "r1-3", Difficulty: Easy, Points: 10, Content: "What is 5 // 2?", Answer: "2"},
	{ID: "r1-4", Difficulty: Easy, Points: 10, Content: "Which built-in prints to the screen?", Answer: "print()"},
	{ID: "r1-5", Difficulty: Easy, Points: 10, Content: "Which brackets surround a list literal?", Answer: "[] (square brackets)"},
	{ID: "r1-6", Difficulty: Easy, Points: 10, Content: "What is the index of the first character of a string?", Answer: "0"},
	{ID: "r1-7", Difficulty: Medium, Points: 15, Content: "Which function returns the length of a list?", Answer: "len()"},
	{ID: "r1-8", Difficulty: Medium, Points: 15, Content: "Which function converts a string to an integer?", Answer: "int()"},
	{ID: "r1-9", Difficulty: Medium, Points: 15, Content: "What type are True and False?", Answer: "bool"},
	{ID: "r1-10", Difficulty: Medium, Points: 15, Content: "What is 5 % 2?", Answer: "1"},
	{ID: "r1-11", Difficulty: Medium, Points: 15, Content: "Which symbol starts a comment?", Answer: "#"},
	{ID: "r1-12", Difficulty: Medium, Points: 15, Content: "Which loop fits a known number of iterations?", Answer: "for"},
	{ID: "r1-13", Difficulty: Medium, Points: 15, Content: "How is the equality comparison written?", Answer: "=="},
	{ID: "r1-14", Difficulty: Hard, Points: 20, Content: "What is 2 ** 3?", Answer: "8"},
	{ID: "r1-15", Difficulty: Hard, Points: 20, Content: "Does 10 != 10 evaluate to True or False?", Answer: "False"},
	{ID: "r1-16", Difficulty: Hard, Points: 20, Content: "What is not True?", Answer: "False"},
	{ID: "r1-17", Difficulty: Hard, Points: 20, Content: "Which loop runs while its condition holds?", Answer: "while"},
	{ID: "r1-18", Difficulty: Hard, Points: 20, Content: "Which standard module draws with a turtle?", Answer: "turtle"},
	{ID: "r1-19", Difficulty: Hard, Points: 20, Content: "Which keyword hands a value back from a function?", Answer: "return"},
}

var round2Catalog = []Question{
	{ID: "r2-logic-1", Category: "LOGIC", Difficulty: Easy, Points: 30, Content: "Logic operators", Answer: "False", Code: "a = True\nb = False\nprint(a and b)"},
	{ID: "r2-logic-2", Category: "LOGIC", Difficulty: Medium, Points: 40, Content: "Logic operators", Answer: "True", Code: "x = 5\nprint(x > 3 or x < 0)"},
	{ID: "r2-logic-3", Category: "LOGIC", Difficulty: Hard, Points: 50, Content: "Logic operators", Answer: "False", Code: "val = True\nprint(not val)"},
	{ID: "r2-syntax-1", Category: "SYNTAX", Difficulty: Easy, Points: 30, Content: "Find the bug", Answer: "Variable names cannot start with a digit", Code: "1_score = 100\nprint(1_score)"},
	{ID: "r2-syntax-2", Category: "SYNTAX", Difficulty: Medium, Points: 40, Content: "Find the bug", Answer: "Missing colon after the condition", Code: "if x > 5\n    print(\"bigger\")"},
	{ID: "r2-syntax-3", Category: "SYNTAX", Difficulty: Hard, Points: 50, Content: "Find the bug", Answer: "The body is not indented", Code: "def hello():\nprint(\"Hi\")"},
	{ID: "r2-algo-1", Category: "ALGO", Difficulty: Easy, Points: 30, Content: "Order the steps", Answer: "B-A-C", Code: "# Goal: add two numbers\n# (A) total = a + b\n# (B) a, b = 5, 10\n# (C) print(total)"},
	{ID: "r2-algo-2", Category: "ALGO", Difficulty: Medium, Points: 40, Content: "Order the steps", Answer: "A-C-B", Code: "# Goal: print 0..2 then End\n# (A) for i in range(3):\n# (B) print(\"End\")\n# (C)     print(i)"},
	{ID: "r2-algo-3", Category: "ALGO", Difficulty: Hard, Points: 50, Content: "Order the steps", Answer: "B-C-A", Code: "# Goal: read and greet a name\n# (A) print(\"Hello\", name)\n# (B) name = \"\"\n# (C) name = input(\"Name? \")"},
	{ID: "r2-output-1", Category: "OUTPUT", Difficulty: Easy, Points: 30, Content: "Predict the output", Answer: "0\n1\n2", Code: "for i in range(3):\n    print(i)"},
	{ID: "r2-output-2", Category: "OUTPUT", Difficulty: Medium, Points: 40, Content: "Predict the output", Answer: "HelloHello", Code: "s = \"Hello\"\nprint(s * 2)"},
	{ID: "r2-output-3", Category: "OUTPUT", Difficulty: Hard, Points: 50, Content: "Predict the output", Answer: "15", Code: "x = 10\nx = x + 5\nprint(x)"},
}

var round3Catalog = []Question{
	{ID: "r3-e1", Difficulty: Easy, Points: 20, Content: "What does print(3 + 4) output?", Answer: "7", Options: []string{"7", "34", "12", "Error"}},
	{ID: "r3-e2", Difficulty: Easy, Points: 20, Content: "Which type is 3.14?", Answer: "float", Options: []string{"int", "float", "str", "bool"}},
	{ID: "r3-e3", Difficulty: Easy, Points: 20, Content: "What does len(\"code\") return?", Answer: "4", Options: []string{"3", "4", "5", "code"}},
	{ID: "r3-e4", Difficulty: Easy, Points: 20, Content: "Which operator assigns a value?", Answer: "="},
	{ID: "r3-e5", Difficulty: Easy, Points: 20, Content: "What is the result of \"a\" + \"b\"?", Answer: "ab", Options: []string{"ab", "a b", "ba", "Error"}},
	{ID: "r3-e6", Difficulty: Easy, Points: 20, Content: "Which keyword starts a conditional branch?", Answer: "if"},
	{ID: "r3-m1", Difficulty: Medium, Points: 30, Content: "What does list(range(1, 4)) produce?", Answer: "[1, 2, 3]", Options: []string{"[1, 2, 3]", "[1, 2, 3, 4]", "[0, 1, 2, 3]", "[4]"}},
	{ID: "r3-m2", Difficulty: Medium, Points: 30, Content: "What is \"python\"[-1]?", Answer: "n", Options: []string{"p", "n", "o", "Error"}},
	{ID: "r3-m3", Difficulty: Medium, Points: 30, Content: "Which method adds an item to the end of a list?", Answer: "append", Options: []string{"add", "push", "append", "insert"}},
	{ID: "r3-m4", Difficulty: Medium, Points: 30, Content: "What does 7 // 2 * 2 evaluate to?", Answer: "6"},
	{ID: "r3-m5", Difficulty: Medium, Points: 30, Content: "What does bool(\"\") return?", Answer: "False", Options: []string{"True", "False", "None", "Error"}},
	{ID: "r3-m6", Difficulty: Medium, Points: 30, Content: "Which keyword skips to the next loop iteration?", Answer: "continue"},
	{ID: "r3-h1", Difficulty: Hard, Points: 40, Content: "What is sum(i for i in range(5))?", Answer: "10", Options: []string{"10", "15", "5", "4"}},
	{ID: "r3-h2", Difficulty: Hard, Points: 40, Content: "What does \"a,b,,c\".split(\",\") return?", Answer: "['a', 'b', '', 'c']", Options: []string{"['a', 'b', 'c']", "['a', 'b', '', 'c']", "['a,b,,c']", "Error"}},
	{ID: "r3-h3", Difficulty: Hard, Points: 40, Content: "What is the output of print([x * 2 for x in [1, 2, 3]][1])?", Answer: "4", Options: []string{"2", "4", "6", "[2, 4, 6]"}},
	{ID: "r3-h4", Difficulty: Hard, Points: 40, Content: "Which exception does int(\"abc\") raise?", Answer: "ValueError", Options: []string{"TypeError", "ValueError", "NameError", "SyntaxError"}},
	{ID: "r3-h5", Difficulty: Hard, Points: 40, Content: "What does {1, 2, 2, 3} contain?", Answer: "{1, 2, 3}"},
	{ID: "r3-h6", Difficulty: Hard, Points: 40, Content: "What is the value of 2 ** 3 ** 2?", Answer: "512"},
}

var defaultBank = mustBank(round1Catalog, round2Catalog, round3Catalog)

func mustBank(round1, round2, round3 []Question) *Bank {
	bank, err := NewBank(round1, round2, round3)
	if err != nil {
		panic(err)
	}
	return bank
}

// DefaultBank returns the built-in question catalog.
func DefaultBank() *Bank {
	return defaultBank
}
