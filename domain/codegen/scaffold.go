package codegen

import (
	"fmt"

	"appbuilder/domain/core/valueobjects"
)

const reactAppScaffold = `import React from 'react';

function App() {
  return (
    <div className="App">
      <header className="App-header">
        <h1>Generated App</h1>
        <p>This is automatically generated from your design</p>
        <button>Click me</button>
      </header>
    </div>
  );
}

export default App;
`

const reactIndexScaffold = `import React from 'react';
import ReactDOM from 'react-dom';
import App from './App';

ReactDOM.render(
  <React.StrictMode>
    <App />
  </React.StrictMode>,
  document.getElementById('root')
);
`

const swiftScaffold = `import SwiftUI

struct ContentView: View {
    var body: some View {
        VStack {
            Text("Generated App")
                .font(.title)
            Text("This is automatically generated from your design")
            Button("Click me") {
                print("Button tapped")
            }
        }
        .padding()
    }
}
`

const pythonScaffold = `print("Generated Python App")
print("This is automatically generated from your design")


def main():
    print("Main function")


if __name__ == "__main__":
    main()
`

// scaffold is the starter file set for a design without components
func scaffold(lang valueobjects.Language) []generatedSource {
	switch lang {
	case valueobjects.LanguageTypeScript, valueobjects.LanguageJavaScript:
		ext := lang.Extension()
		return []generatedSource{
			{path: "/src/App." + ext, content: reactAppScaffold},
			{path: "/src/index." + ext, content: reactIndexScaffold},
		}
	case valueobjects.LanguageSwift:
		return []generatedSource{{path: "/ContentView.swift", content: swiftScaffold}}
	case valueobjects.LanguagePython:
		return []generatedSource{{path: "/main.py", content: pythonScaffold}}
	default:
		c := commentPrefix(lang)
		content := fmt.Sprintf("%s Generated App\n%s This is automatically generated from your design\n", c, c)
		return []generatedSource{{path: "/src/main." + lang.Extension(), content: content}}
	}
}
