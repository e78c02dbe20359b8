package templates

// Contract templates. Tokens have the form {TOKEN_NAME}; see fields.go for the
// tokens each kind may use.

const servicesTemplate = `ДОГОВІР ПРО НАДАННЯ ПОСЛУГ

Тип: {TYPE}
Дата: {DATE}

СТОРОНИ:
Замовник: {COUNTERPARTY}
ІПН: {TAX_ID}

ПРЕДМЕТ ДОГОВОРУ:
{SUBJECT}

ТЕРМІН ДІЇ:
З {START_DATE} по {END_DATE}

ВАРТІСТЬ:
{AMOUNT}

ДОДАТКОВІ УМОВИ:
{ADDITIONAL}

ПІДПИСИ СТОРІН:
_________________          _________________
Замовник                   Виконавець`

const rentTemplate = `ДОГОВІР ОРЕНДИ КВАРТИРИ У ПРИВАТНОЇ ОСОБИ

м. Львів                                                                                    " {DAY} " {MONTH} {YEAR} р.

Сторони:

Орендодавець {LANDLORD_NAME} діючого на підставі паспорта {LANDLORD_PASSPORT_SERIES} № {LANDLORD_PASSPORT_NUMBER}
виданий {LANDLORD_PASSPORT_ISSUED}
зареєстрований(а) {LANDLORD_REGISTERED}
проживає {LANDLORD_ADDRESS}
номер засобу зв'язку: {LANDLORD_PHONE}

з однієї сторони, та

Орендар {TENANT_NAME} діючого на підставі паспорта {TENANT_PASSPORT_SERIES} № {TENANT_PASSPORT_NUMBER}
виданий {TENANT_PASSPORT_ISSUED}
зареєстрований(а) {TENANT_REGISTERED}
проживає {TENANT_ADDRESS}
номер засобу зв'язку: {TENANT_PHONE}

з другої сторони, уклали цей Договір про наступне:

1. Предмет договору.

Орендодавець надає, а Орендар приймає в строкове платне користування квартиру (далі за текстом "об'єкт оренди"):

Адреса: м. Львів, вул. {STREET} буд. № {BUILDING} кв. {APARTMENT}

Кількість кімнат: {ROOMS}

Орендодавець також передає в оренду майно, що знаходиться у квартирі, і вказане у Акті здачі-приймання.

2. Мета та умови використання об'єкту оренди.

Об'єкт оренди передається в оренду для проживання.

3. Термін оренди.

Термін оренди складає з {START_DATE} до {END_DATE}.

Термін оренди може бути скорочений лише за згодою сторін.

Після закінчення терміну Договору Орендар може поновити його на новий термін за згодою сторін.

4. Орендна плата.

Розмір орендної плати за об'єкт, що орендується, складає {AMOUNT} на місяць.

Розмір орендної плати може переглядатися Сторонами не частіше, ніж один раз протягом року або за згодою сторін у разі погіршення стану Об'єкту оренди не з вини Орендаря, що підтверджено документами.

Комунальні послуги оплачуються Орендарем самостійно на підставі рахунків відповідних організацій.

5. Порядок передачі об'єкта в оренду.

Квартира та майно повинні бути передані Орендодавцем та прийняті Орендарем протягом {TRANSFER_DAYS} з моменту укладення Даного Договору. Протягом цього терміну Орендодавець зобов'язаний виїхати з квартири та підготувати її для передачі Орендареві.

Передача квартири в оренду оформлюється актом здачі-приймання.

У момент підписання акту здачі-приймання Орендодавець передає Орендареві ключі від квартири та від кімнат.

Об'єкт, що орендується, вважається переданим в оренду з моменту підписання акту здачі-приймання.

6. Права та обов'язки сторін.

Обов'язки Орендаря:
- Використовувати майно, що орендується, за його цільовим призначенням у відповідності до п.2 Даного договору.
- Своєчасно здійснювати комунальні платежі.
- Здійснювати за власний рахунок профілактичне обслуговування та поточний ремонт майна, що орендується.
- Дотримуватися протипожежних правил.
- Не здійснювати перебудову та перепланування квартири, що орендується.
- Дотримуватися правил проживання в будинку, в якому знаходиться квартира.

Права Орендаря:
- Обладнати та оформити квартиру на власний розсуд за згодою Орендодавця.
- Міняти замки вхідних дверей та кімнат, укріплювати вхідні двері, установлювати сигналізацію та інші системи охорони квартири за згодою Орендодавця.

Права Орендодавця:
- Орендодавець має право 1 (один) раз на місяць здійснювати перевірку порядку використання Орендарем майна, що орендується, у відповідності до умов Даного Договору.
- У разі зміни власника об'єкта оренди до нового власника переходять права та обов'язки Орендодавця.

7. Порядок повернення квартири Орендодавцю. Розірвання Договору оренди.

Після закінчення терміну оренди Орендар зобов'язаний передати Орендодавцю квартиру та майно, що орендується, протягом 1 (одного) дня з моменту закінчення терміну оренди за актом здачі-приймання.

Квартира та майно вважаються фактично переданим Орендодавцю з моменту підписання акту здачі-приймання.

У момент підписання акту здачі-приймання Орендар передає Орендодавцю ключі від квартири та кімнат.

Квартира та майно повинні бути передані Орендодавцю у тому ж стані, в якому вони були передані в оренду з урахуванням нормального зносу.

Невідокремлювані покращення здійснені в квартирі Орендарем, переходять до Орендодавця без відшкодування здійснених витрат.

Договір оренди може бути розірваний з ініціативи Орендодавця у разі:
- невнесення Орендарем орендної плати та плати за комунальні послуги за поточний місяць (за один місяць);
- руйнування або псування Об'єкту оренди Орендарем або іншими особами, за дії яких він відповідає;
- якщо Орендар або інші особи, за дії яких він відповідає, використовують об'єкт оренди не за призначенням (не дозволяється використовувати під суборенду) або систематично порушують права та інтереси сусідів.

Дострокове розірвання Договору можливе лише за взаємною згодою Сторін, якщо інше не встановлено Договором або законодавством України, за винятком випадків, коли одна із сторін систематично порушує умови договору і свої зобов'язання. Орендар чи орендодавець, при розірванні договору зобов'язаний попередити за два тижні орендодавця чи орендаря про виселення з квартири.

8. Інші умови.

Договір набуває чинності з моменту його підписання Сторонами і діє до моменту повного виконання Сторонами своїх зобов'язань за цим Договором.

Умови даного Договору можуть бути змінені лише за взаємною згодою Сторін з обов'язковим складанням письмового документу.

Усі спори, що пов'язані з цим Договором, вирішуються шляхом переговорів між Сторонами. Якщо спір не може бути вирішений шляхом переговорів, він вирішується в судовому порядку за встановленою підвідомчістю та підсудністю такого спору, визначеному відповідним чинним законодавством України.

Даний Договір укладено у двох оригінальних примірниках, по одному для кожної із сторін.

Після підписання цього Договору усі попередні переговори за ним, листування, попередні угоди та протоколи про наміри з питань, що так чи інакше стосуються цього Договору, втрачають юридичну силу.

Додатки до Даного Договору складають його невід'ємну частину.

До Даного Договору додається: акт приймання-передачі, таблиця розрахунків.

9. Додаткові умови.

{ADDITIONAL}

10. Показники лічильників:

Газ: {GAS_METER}
Електроенергія: {ELECTRICITY_METER}
Вода: {WATER_METER}

11. Місцезнаходження та реквізити сторін.

Орендодавець

П.І.Б. {LANDLORD_NAME}
Паспорт {LANDLORD_PASSPORT_SERIES} № {LANDLORD_PASSPORT_NUMBER}
Виданий {LANDLORD_PASSPORT_ISSUED}
Зареєстрований(а) {LANDLORD_REGISTERED}
Проживає {LANDLORD_ADDRESS}
Номер засобу зв'язку: {LANDLORD_PHONE}

Підпис ______________________

Орендар

П.І.Б. {TENANT_NAME}
Паспорт {TENANT_PASSPORT_SERIES} № {TENANT_PASSPORT_NUMBER}
Виданий {TENANT_PASSPORT_ISSUED}
Зареєстрований(а) {TENANT_REGISTERED}
Проживає {TENANT_ADDRESS}
Номер засобу зв'язку: {TENANT_PHONE}

Підпис ______________________


ДОДАТОК ДО ДОГОВОРУ ОРЕНДИ
від " {DAY} " {MONTH} {YEAR} року

АКТ ПРИЙМАННЯ-ПЕРЕДАЧІ

Ми, що нижче підписалися:

Від Орендодавця {LANDLORD_NAME}
Від Орендаря {TENANT_NAME}

склали цей акт в тому, що Орендодавцем передано, а Орендарем прийнято в оренду, згідно договору від " {DAY} " {MONTH} {YEAR} року об'єкт (квартиру, будинок, приміщення) за адресою: м. Львів, вул. {STREET} буд. № {BUILDING} кв. {APARTMENT}, загальною площею {AREA} м.кв.

На момент передачі в оренду об'єкт знаходиться в справному стані. На час дії договору оренди Орендодавець передає, а Орендар приймає в користування таке майно:

{PROPERTY_LIST}

Санітарні, технічні, газо (електро) нагрівальні прилади та обладнання: {EQUIPMENT}

Прийняті (здані) у робочому (справному) стані.

Від Орендодавця                                    Від Орендаря
________________                                  ________________`

const saleTemplate = `ДОГОВІР КУПІВЛІ-ПРОДАЖУ

Тип: {TYPE}
Дата: {DATE}

СТОРОНИ:
Покупець: {COUNTERPARTY}
ІПН: {TAX_ID}

ПРЕДМЕТ ДОГОВОРУ:
{SUBJECT}

ВАРТІСТЬ:
{AMOUNT}

ДОДАТКОВІ УМОВИ:
{ADDITIONAL}

ПІДПИСИ СТОРІН:
_________________          _________________
Покупець                   Продавець`

const ndaTemplate = `ДОГОВІР ПРО НЕРОЗГОЛОШЕННЯ (NDA)

Тип: {TYPE}
Дата: {DATE}

СТОРОНИ:
Контрагент: {COUNTERPARTY}
ІПН: {TAX_ID}

ПРЕДМЕТ ДОГОВОРУ:
{SUBJECT}

ТЕРМІН ДІЇ:
З {START_DATE} по {END_DATE}

ДОДАТКОВІ УМОВИ:
{ADDITIONAL}

ПІДПИСИ СТОРІН:
_________________          _________________
Контрагент                 Наша компанія`
