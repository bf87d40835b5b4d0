package registry

import "github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"

// DefaultProfiles returns the built-in language profiles in registry order.
// When two profiles claim the same extension the earlier one wins.
func DefaultProfiles() []schema.LanguageProfile {
	return []schema.LanguageProfile{
		{
			ID:         "javascript",
			Extensions: []string{"js", "jsx", "mjs", "cjs"},
			TestPatterns: []string{
				"**/*.test.js", "**/*.spec.js",
				"**/*.test.jsx", "**/*.spec.jsx",
				"**/*.test.mjs", "**/*.spec.mjs",
				"**/__tests__/**/*.js", "**/__tests__/**/*.jsx",
				"**/test/**/*.js", "**/tests/**/*.js",
			},
			Frameworks: []string{"Jest", "Mocha", "Jasmine", "Vitest"},
			FrameworkMarkers: map[string][]string{
				"Jest":    {"jest.fn", "jest.mock", "@jest/globals"},
				"Mocha":   {"require('mocha')", "from 'mocha'", "chai"},
				"Jasmine": {"jasmine.", "jasmine-core"},
				"Vitest":  {"vitest", "vi.fn"},
			},
		},
		{
			ID:         "typescript",
			Extensions: []string{"ts", "tsx", "mts", "cts"},
			TestPatterns: []string{
				"**/*.test.ts", "**/*.spec.ts",
				"**/*.test.tsx", "**/*.spec.tsx",
				"**/__tests__/**/*.ts", "**/__tests__/**/*.tsx",
				"**/test/**/*.ts", "**/tests/**/*.ts",
			},
			Frameworks: []string{"Jest", "Vitest", "Mocha", "Jasmine"},
			FrameworkMarkers: map[string][]string{
				"Jest":    {"jest.fn", "jest.mock", "@jest/globals"},
				"Vitest":  {"vitest", "vi.fn"},
				"Mocha":   {"from 'mocha'", "chai"},
				"Jasmine": {"jasmine."},
			},
		},
		{
			ID:         "python",
			Extensions: []string{"py"},
			TestPatterns: []string{
				"**/test_*.py", "**/*_test.py",
				"**/tests/**/*.py", "**/test/**/*.py",
			},
			Frameworks: []string{"pytest", "unittest"},
			FrameworkMarkers: map[string][]string{
				"pytest":   {"import pytest", "@pytest."},
				"unittest": {"import unittest", "unittest.TestCase"},
			},
		},
		{
			ID:         "java",
			Extensions: []string{"java"},
			TestPatterns: []string{
				"**/*Test.java", "**/*Tests.java", "**/*IT.java",
				"**/src/test/**/*.java",
			},
			Frameworks: []string{"JUnit", "TestNG"},
			FrameworkMarkers: map[string][]string{
				"JUnit":  {"org.junit"},
				"TestNG": {"org.testng"},
			},
		},
		{
			ID:           "go",
			Extensions:   []string{"go"},
			TestPatterns: []string{"**/*_test.go"},
			Frameworks:   []string{"testing", "testify"},
			FrameworkMarkers: map[string][]string{
				"testing": {"\"testing\"", "*testing.T"},
				"testify": {"github.com/stretchr/testify"},
			},
		},
		{
			ID:         "ruby",
			Extensions: []string{"rb"},
			TestPatterns: []string{
				"**/*_spec.rb", "**/*_test.rb",
				"**/spec/**/*.rb", "**/test/**/*.rb",
			},
			Frameworks: []string{"RSpec", "Minitest"},
			FrameworkMarkers: map[string][]string{
				"RSpec":    {"RSpec.describe", "require 'rspec'", "spec_helper"},
				"Minitest": {"Minitest::Test", "require 'minitest"},
			},
		},
		{
			ID:         "csharp",
			Extensions: []string{"cs"},
			TestPatterns: []string{
				"**/*Tests.cs", "**/*Test.cs",
				"**/*.Tests/**/*.cs",
			},
			Frameworks: []string{"xUnit", "NUnit", "MSTest"},
			FrameworkMarkers: map[string][]string{
				"xUnit":  {"using Xunit", "[Fact]"},
				"NUnit":  {"using NUnit", "[TestFixture]"},
				"MSTest": {"Microsoft.VisualStudio.TestTools", "[TestMethod]"},
			},
		},
		{
			ID:           "php",
			Extensions:   []string{"php"},
			TestPatterns: []string{"**/*Test.php", "**/tests/**/*.php"},
			Frameworks:   []string{"PHPUnit", "Pest"},
			FrameworkMarkers: map[string][]string{
				"PHPUnit": {"PHPUnit\\Framework"},
				"Pest":    {"Pest\\", "pest()"},
			},
		},
		{
			ID:         "kotlin",
			Extensions: []string{"kt", "kts"},
			TestPatterns: []string{
				"**/*Test.kt", "**/*Tests.kt",
				"**/src/test/**/*.kt",
			},
			Frameworks: []string{"JUnit", "Kotest"},
			FrameworkMarkers: map[string][]string{
				"JUnit":  {"org.junit"},
				"Kotest": {"io.kotest"},
			},
		},
		{
			ID:           "rust",
			Extensions:   []string{"rs"},
			TestPatterns: []string{"**/tests/**/*.rs", "**/*_test.rs"},
			Frameworks:   []string{"cargo test"},
			FrameworkMarkers: map[string][]string{
				"cargo test": {"#[test]", "#[cfg(test)]"},
			},
		},
	}
}
